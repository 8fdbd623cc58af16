package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when no file was given and stdin is a terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f or pipe JSON")

// Validator is implemented by inputs that check themselves after decoding.
type Validator interface {
	Validate() error
}

// Input decodes a T from the --file flag or from the command's reader.
type Input[T any] struct {
	path string
}

// Flag returns the --file/-f flag bound to this input.
func (in *Input[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to a JSON file (reads stdin when omitted)",
		Destination: &in.path,
	}
}

// Read decodes the input. Unknown fields are rejected. When T implements
// Validator, the decoded value is validated before it is returned.
func (in *Input[T]) Read(c *cli.Command) (T, error) {
	var v T

	r, closeFn, err := in.open(c)
	if err != nil {
		return v, err
	}
	defer closeFn()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode JSON: %w", err)
	}

	if val, ok := any(v).(Validator); ok {
		if err := val.Validate(); err != nil {
			return v, fmt.Errorf("invalid input: %w", err)
		}
	}
	return v, nil
}

func (in *Input[T]) open(c *cli.Command) (io.Reader, func(), error) {
	if in.path != "" {
		f, err := os.Open(in.path)
		if err != nil {
			return nil, nil, fmt.Errorf("open input: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}

	var r io.Reader = os.Stdin
	if c != nil && c.Root().Reader != nil {
		r = c.Root().Reader
	}
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, nil, ErrNoInput
	}
	return r, func() {}, nil
}
