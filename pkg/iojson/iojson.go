// Package iojson reads and writes the JSON documents exchanged by the
// machine-readable CLI commands.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// Error is the JSON shape of a failure report.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Streams pairs the output and error writers of a command.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

// For returns the root command's writers, falling back to stdout and stderr.
func For(c *cli.Command) Streams {
	s := Streams{Out: os.Stdout, Err: os.Stderr}
	if c == nil {
		return s
	}
	root := c.Root()
	if root.Writer != nil {
		s.Out = root.Writer
	}
	if root.ErrWriter != nil {
		s.Err = root.ErrWriter
	}
	return s
}

// Write encodes v as indented JSON on Out. A value that cannot be encoded
// is reported on Err as an Error document.
func (s Streams) Write(v any) error {
	bits, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s.Fail("encode output", map[string]any{"json_error": err.Error()})
	}
	_, err = fmt.Fprintln(s.Out, string(bits))
	return err
}

// Fail writes an Error document to Err and returns an error carrying msg so
// the command exits non-zero.
func (s Streams) Fail(msg string, data map[string]any) error {
	bits, err := json.MarshalIndent(Error{Message: msg, Data: data}, "", "  ")
	if err != nil {
		// data held something unencodable; keep the message.
		bits, _ = json.Marshal(Error{Message: msg, Data: map[string]any{"json_error": err.Error()}})
	}
	if _, werr := fmt.Fprintln(s.Err, string(bits)); werr != nil {
		return werr
	}
	return cli.Exit("", 1)
}
