package ports

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Interactor is the terminal port used by interactive front-ends.
type Interactor interface {
	Output(message string)
	Warning(message string)
	Error(message string, err error)
	Ask(prompt string) (string, error)
}

// ConsoleInteractor is the stdin/stdout Interactor implementation.
type ConsoleInteractor struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleInteractor creates an interactor over the given streams; nil
// arguments default to stdin/stdout.
func NewConsoleInteractor(in io.Reader, out io.Writer) *ConsoleInteractor {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleInteractor{in: bufio.NewReader(in), out: out}
}

func (c *ConsoleInteractor) Output(message string) {
	fmt.Fprintln(c.out, message)
}

func (c *ConsoleInteractor) Warning(message string) {
	fmt.Fprintf(c.out, "Warning: %s\n", message)
}

func (c *ConsoleInteractor) Error(message string, err error) {
	fmt.Fprintf(c.out, "Error: %s: %v\n", message, err)
}

func (c *ConsoleInteractor) Ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
