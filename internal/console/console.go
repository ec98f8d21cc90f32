// Package console is the terminal surface of the REPL: it reads user lines,
// prints answers and tool progress, and asks the human to review edits.
//
// A single goroutine reads input and hands lines over one channel, so the
// REPL prompt and edit confirmations consume the same stream in order.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/petasbytes/go-pilot/internal/diffview"
	"github.com/petasbytes/go-pilot/memory"
	"github.com/petasbytes/go-pilot/tools"
)

const maxLineBytes = 1 << 20

// ApprovalPrompt is printed after a proposed diff.
const ApprovalPrompt = "apply changes? (y/n) "

type Console struct {
	out    io.Writer
	errOut io.Writer
	lines  chan string

	mu      sync.Mutex
	readErr error

	user      lipgloss.Style
	assistant lipgloss.Style
	diff      diffview.Styles
}

type Option func(*Console)

// WithColor toggles ANSI styling. Color is on by default.
func WithColor(on bool) Option {
	return func(c *Console) {
		if on {
			c.user = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
			c.assistant = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
			c.diff = diffview.ColorStyles()
			return
		}
		c.user = lipgloss.NewStyle()
		c.assistant = lipgloss.NewStyle()
		c.diff = diffview.PlainStyles()
	}
}

// WithErrorOutput sets where tool failures are reported (default: out).
func WithErrorOutput(w io.Writer) Option {
	return func(c *Console) { c.errOut = w }
}

// New starts reading lines from in. The reader goroutine ends when in is
// exhausted.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{out: out, errOut: out, lines: make(chan string)}
	WithColor(true)(c)
	for _, o := range opts {
		o(c)
	}

	go c.read(in)
	return c
}

func (c *Console) read(in io.Reader) {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		c.lines <- sc.Text()
	}
	c.mu.Lock()
	c.readErr = sc.Err()
	c.mu.Unlock()
	close(c.lines)
}

// Err reports a read failure once input has ended. A clean EOF is nil.
func (c *Console) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// ReadLine blocks for the next input line. It returns io.EOF once input is
// exhausted and ctx.Err() when ctx is done first.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// Prompt prints the user prompt.
func (c *Console) Prompt() {
	fmt.Fprint(c.out, c.user.Render("You")+": ")
}

func (c *Console) Answer(text string) {
	fmt.Fprintf(c.out, "%s: %s\n", c.assistant.Render("Claude"), text)
}

func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Error reports a failed request; the session continues.
func (c *Console) Error(err error) {
	fmt.Fprintf(c.errOut, "error: %v\n", err)
}

// ToolStarted announces a tool call before it runs.
func (c *Console) ToolStarted(call memory.ToolCall) {
	fmt.Fprintf(c.out, "→ %s\n", call.Name)
}

// ToolFinished reports soft failures; successful results stay quiet.
func (c *Console) ToolFinished(_ memory.ToolCall, res memory.ToolResult) {
	if res.IsError {
		fmt.Fprintf(c.errOut, "failed: %s\n", res.Content)
	}
}

// Review prints the proposed diff and returns the human's raw reply.
func (c *Console) Review(ctx context.Context, p tools.Proposal) (string, error) {
	if p.Create {
		fmt.Fprintf(c.out, "\nproposed new file %s\n", p.Path)
	} else {
		fmt.Fprintf(c.out, "\nproposed change to %s\n", p.Path)
	}
	if err := diffview.Render(c.out, p.Path, p.Diff, c.diff); err != nil {
		return "", fmt.Errorf("render diff: %w", err)
	}
	fmt.Fprint(c.out, ApprovalPrompt)

	reply, err := c.ReadLine(ctx)
	if err != nil {
		fmt.Fprintln(c.out)
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimRight(reply, "\r"), nil
}

var _ tools.Reviewer = (*Console)(nil)
