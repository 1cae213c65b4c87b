package core

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type configCLI struct {
	Format    string `default:"text"`
	OnlyCSI   bool   `name:"only-csi"`
	ChunkSize int
}

func parseWithConfig(t *testing.T, yamlDoc string, args ...string) configCLI {
	t.Helper()
	resolver, err := YAML(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var cli configCLI
	parser, err := kong.New(&cli, kong.Resolvers(resolver), kong.Exit(func(int) { t.Fatalf("kong exited") }))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cli
}

func TestYAMLResolver(t *testing.T) {
	cli := parseWithConfig(t, "format: json\nonly_csi: true\nchunk-size: 4\n")
	if cli.Format != "json" || !cli.OnlyCSI || cli.ChunkSize != 4 {
		t.Fatalf("cli = %+v", cli)
	}

	cli = parseWithConfig(t, "format: json\n", "--format", "cbor")
	if cli.Format != "cbor" {
		t.Fatalf("flag did not override config: %+v", cli)
	}

	cli = parseWithConfig(t, "")
	if cli.Format != "text" {
		t.Fatalf("empty config changed defaults: %+v", cli)
	}
}

func TestYAMLResolverNested(t *testing.T) {
	values := map[string]any{"log": map[string]any{"format": "json"}}
	if got := lookup(values, "log.format"); got != "json" {
		t.Fatalf("lookup = %v", got)
	}
	if got := lookup(values, "missing.key"); got != nil {
		t.Fatalf("lookup of missing key = %v", got)
	}
}

func TestYAMLInvalid(t *testing.T) {
	if _, err := YAML(strings.NewReader("format: [unclosed")); err == nil {
		t.Fatalf("invalid YAML accepted")
	}
}
