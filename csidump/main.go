package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"

	"github.com/synadia-labs/csi.go/csidump/core"
)

// CLI defines the csidump command-line interface.
//
// Flags may also be set from a YAML file, either ~/.config/csidump.yaml
// or the one named by --config.
type CLI struct {
	Input     string          `arg:"" optional:"" help:"Input file, or - for stdin" default:"-"`
	Exec      string          `short:"e" help:"Run a command under a pseudo-terminal and dump its output"`
	Format    string          `short:"f" help:"Output format" enum:"text,json,cbor,msgpack" default:"text"`
	OnlyCSI   bool            `name:"only-csi" help:"Only print control sequences"`
	Allow8Bit bool            `name:"allow-8bit" help:"Recognize 8-bit C1 introducers (not for UTF-8 input)"`
	ChunkSize int             `help:"Cap each read at this many bytes (0 for no cap)" default:"0"`
	MaxToken  int             `help:"Give up on an unterminated sequence after this many bytes" default:"65536"`
	Color     string          `help:"Colorize text output" enum:"auto,always,never" default:"auto"`
	Config    kong.ConfigFlag `short:"c" help:"YAML config file"`
	Verbose   bool            `short:"v" help:"Enable verbose diagnostics"`
	LogFormat string          `help:"Log format" enum:"text,json,logfmt" default:"text"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("csidump"),
		kong.Description("Dump the escape-sequence structure of a terminal byte stream."),
		kong.Configuration(core.YAML, "~/.config/csidump.yaml"),
	)

	if err := run(&cli); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func run(cli *CLI) error {
	if cli.Exec != "" && cli.Input != "-" {
		return errors.New("--exec cannot be combined with an input file")
	}
	if cli.ChunkSize < 0 {
		return errors.New("--chunk-size must not be negative")
	}

	log, err := core.NewLogger(os.Stderr, cli.Verbose, cli.LogFormat)
	if err != nil {
		return err
	}

	_, err = core.Run(core.Options{
		Input:     cli.Input,
		Exec:      cli.Exec,
		Format:    cli.Format,
		OnlyCSI:   cli.OnlyCSI,
		Allow8Bit: cli.Allow8Bit,
		ChunkSize: cli.ChunkSize,
		MaxToken:  cli.MaxToken,
		Color:     cli.Color,
	}, os.Stdin, os.Stdout, log)
	return err
}
