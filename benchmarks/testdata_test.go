package benchmarks

import (
	"bytes"
	"strings"
)

// terminalOutput approximates what a colorful shell prompt and an `ls
// --color` listing send to a terminal: short text runs separated by SGR
// sequences, with the odd title update and mode switch.
var terminalOutput = func() []byte {
	var b bytes.Buffer
	b.WriteString("\x1b]0;user@host: ~/src\x07\x1b[?2004h")
	for i := 0; i < 200; i++ {
		b.WriteString("\x1b[1;34mdirectory\x1b[0m  \x1b[38;5;208mfile.go\x1b[0m  ")
		b.WriteString("\x1b[38:2::255:128:0mtruecolor\x1b[m\r\n")
	}
	b.WriteString(strings.Repeat("plain text without any escapes ", 50))
	b.WriteString("\x1b[?2004l\r\n")
	return b.Bytes()
}()

var sgrTruecolor = []byte("\x1b[38:2::255:128:0;48:2::0:0:0;1;4m")
