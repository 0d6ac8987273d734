// Package prompt provides line-based console questions.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Asker asks a question and returns the trimmed answer.
type Asker interface {
	Ask(question string) (string, error)
}

// Console reads answers line by line from a reader.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole returns a Console that prints questions to out and reads answers from in.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Ask prints the question and reads one line. End of input reads as an empty answer.
func (c *Console) Ask(question string) (string, error) {
	if _, err := fmt.Fprint(c.out, question); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// IsNo reports whether an answer declines a yes/no question.
func IsNo(answer string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "n")
}

// Confirm asks a yes/no question. Only answers starting with n or N are a no.
func Confirm(a Asker, question string) (bool, error) {
	answer, err := a.Ask(question)
	if err != nil {
		return false, err
	}
	return !IsNo(answer), nil
}
