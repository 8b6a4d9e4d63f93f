// Package console reads user answers line by line and writes the session
// transcript. It knows nothing about the store.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrInputClosed is returned once the input stream is exhausted.
var ErrInputClosed = errors.New("console: input closed")

// Console pairs a line reader with the transcript writer.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	// fd is the terminal used for masked password input, or -1.
	fd int
}

// New returns a Console reading from in and writing to out. Passwords are
// read as ordinary lines.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, fd: -1}
}

// NewStdio returns a Console on the process's standard streams. When stdin
// is a terminal, passwords are read without echo.
func NewStdio() *Console {
	c := New(os.Stdin, os.Stdout)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.fd = fd
	}
	return c
}

// Out returns the transcript writer.
func (c *Console) Out() io.Writer { return c.out }

func (c *Console) Print(a ...any)                 { fmt.Fprint(c.out, a...) }
func (c *Console) Println(a ...any)               { fmt.Fprintln(c.out, a...) }
func (c *Console) Printf(format string, a ...any) { fmt.Fprintf(c.out, format, a...) }

// ReadLine shows prompt and returns the next line without its line ending.
func (c *Console) ReadLine(prompt string) (string, error) {
	c.Print(prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimEOL(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("console: read: %w", err)
	}
	return trimEOL(line), nil
}

// String shows prompt and returns the answer, or def when the answer is
// empty. An empty def means there is no default.
func (c *Console) String(prompt, def string) (string, error) {
	text, err := c.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	if text == "" && def != "" {
		return def, nil
	}
	return text, nil
}

// Password shows prompt and reads a secret. On a terminal the characters
// are not echoed.
func (c *Console) Password(prompt string) (string, error) {
	if c.fd < 0 {
		return c.ReadLine(prompt)
	}
	c.Print(prompt)
	b, err := term.ReadPassword(c.fd)
	c.Println()
	if err != nil {
		return "", fmt.Errorf("console: read password: %w", err)
	}
	return string(b), nil
}

// Choose asks until the answer equals one of options, ignoring case, and
// returns the matching option as listed. A single option is returned without
// asking; no options yields "".
func (c *Console) Choose(prompt string, options []string) (string, error) {
	switch len(options) {
	case 0:
		return "", nil
	case 1:
		return options[0], nil
	}

	for {
		answer, err := c.ReadLine(prompt)
		if err != nil {
			return "", err
		}
		for _, o := range options {
			if strings.EqualFold(answer, o) {
				return o, nil
			}
		}
		c.Println("Invalid option selected.")
		c.Println()
	}
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
