// Package lineio reads one line of input at a time from a terminal or any
// other io.Reader, for use by interactive grammar-testing sessions.
package lineio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader reads successive lines of non-blank input. Close must be called
// before disposal to release any underlying terminal resources.
type Reader interface {
	ReadLine() (string, error)
	Close() error
}

// Direct reads lines from any io.Reader without terminal handling. It does
// not sanitize control or escape sequences from the input.
//
// Direct should not be used directly; create one with NewDirect.
type Direct struct {
	r *bufio.Reader
}

// NewDirect wraps r in a buffered Reader.
func NewDirect(r io.Reader) *Direct {
	return &Direct{r: bufio.NewReader(r)}
}

func (d *Direct) Close() error { return nil }

// ReadLine reads the next non-blank line from the wrapped reader. At end of
// input the returned string is empty and the error is io.EOF.
func (d *Direct) ReadLine() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = d.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
	}
	return line, nil
}

// Interactive reads lines from stdin via a Go implementation of GNU
// Readline, keeping input clear of editing escape sequences and enabling
// command history. Intended for use only when stdin is a tty.
//
// Interactive should not be used directly; create one with NewInteractive.
type Interactive struct {
	rl *readline.Instance
}

// NewInteractive initializes readline with the given prompt.
func NewInteractive(prompt string) (*Interactive, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &Interactive{rl: rl}, nil
}

func (i *Interactive) Close() error { return i.rl.Close() }

// ReadLine reads the next non-blank line. At end of input the returned
// string is empty and the error is io.EOF.
func (i *Interactive) ReadLine() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = i.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
	}
	return line, nil
}

// SetPrompt updates the interactive prompt.
func (i *Interactive) SetPrompt(p string) {
	i.rl.SetPrompt(p)
}
