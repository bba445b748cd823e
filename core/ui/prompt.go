// Package ui - Console prompts
package ui

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"ebill/internal/errors"
)

// Prompter asks questions on a Writer and reads answers line by line
type Prompter struct {
	in *bufio.Reader
	w  *Writer
}

// NewPrompter creates a prompter reading from in
func NewPrompter(in io.Reader, w *Writer) *Prompter {
	return &Prompter{
		in: bufio.NewReader(in),
		w:  w,
	}
}

// Line prints label and returns the next line without its line ending.
// A final line without a newline is accepted; end of input before any
// text is an input error.
func (p *Prompter) Line(label string) (string, error) {
	p.w.Print("%s", label)

	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		if err == io.EOF {
			return "", errors.Input("unexpected end of input at "+strings.TrimSpace(label), err)
		}
		return "", errors.Input("read console input", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Int prints label and parses the next line as a decimal integer
func (p *Prompter) Int(label string) (int, error) {
	line, err := p.Line(label)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errors.Input("expected a whole number, got "+strconv.Quote(strings.TrimSpace(line)), err)
	}
	return n, nil
}
