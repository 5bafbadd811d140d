package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// prompter reads answers from the command's stdin. Secrets are read without
// echo when stdin is a terminal.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, reader: bufio.NewReader(in), out: out}
}

func (p *prompter) interactive() bool {
	return isTerminal(p.in)
}

func (p *prompter) line(prompt string) (string, error) {
	if p.interactive() {
		fmt.Fprint(p.out, prompt)
	}
	text, err := p.reader.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		if text == "" {
			return "", io.EOF
		}
	default:
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(text, "\r\n"), nil
}

func (p *prompter) secret(prompt string) (string, error) {
	file, ok := p.in.(*os.File)
	if !ok || !isatty.IsTerminal(file.Fd()) {
		return p.line(prompt)
	}
	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(secret), nil
}

func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
