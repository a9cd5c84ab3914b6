// Package console runs the booking conversation over a line-oriented terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrClosed is returned once the input stream has been exhausted.
var ErrClosed = errors.New("console: input closed")

type line struct {
	text string
	err  error
}

// Channel reads answers line by line from in and writes prompts to out.
// Reads happen on a background goroutine so a blocked Ask returns as soon as
// its context is cancelled; a line that arrives afterwards is kept for the
// next Ask.
type Channel struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
	out     io.Writer

	startOnce sync.Once
	lines     chan line
}

// New wraps the given reader and writer. Both are required.
func New(in io.Reader, out io.Writer) *Channel {
	if in == nil || out == nil {
		panic("console: reader and writer required")
	}
	return &Channel{
		scanner: bufio.NewScanner(in),
		out:     out,
		lines:   make(chan line),
	}
}

func (c *Channel) readLoop() {
	defer close(c.lines)
	for c.scanner.Scan() {
		c.lines <- line{text: strings.TrimRight(c.scanner.Text(), "\r")}
	}
	if err := c.scanner.Err(); err != nil {
		c.lines <- line{err: fmt.Errorf("console: read line: %w", err)}
	}
}

// Ask writes prompt without a trailing newline and returns the next input
// line with its line ending removed.
func (c *Channel) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := io.WriteString(c.out, prompt); err != nil {
		return "", fmt.Errorf("console: write prompt: %w", err)
	}

	c.startOnce.Do(func() { go c.readLoop() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			return "", fmt.Errorf("%w: %w", ErrClosed, io.EOF)
		}
		if l.err != nil {
			return "", l.err
		}
		return l.text, nil
	}
}

// Say writes message followed by a newline.
func (c *Channel) Say(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.out, message); err != nil {
		return fmt.Errorf("console: write message: %w", err)
	}
	return nil
}
