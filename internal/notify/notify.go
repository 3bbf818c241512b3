// ABOUTME: Transient user notifications and confirmation prompts for the console
// ABOUTME: Coloured terminal notifier, y/N prompt, and recording doubles for tests

// Package notify surfaces operation outcomes to the operator.
package notify

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Notifier shows transient messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Console writes notifications to a terminal.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	green *color.Color
	red   *color.Color
	cyan  *color.Color
}

// NewConsole creates a notifier writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:   out,
		green: color.New(color.FgGreen),
		red:   color.New(color.FgRed),
		cyan:  color.New(color.FgCyan),
	}
}

func (c *Console) Success(msg string) { c.write(c.green, "✓ ", msg) }
func (c *Console) Error(msg string)   { c.write(c.red, "✗ ", msg) }
func (c *Console) Info(msg string)    { c.write(c.cyan, "ℹ ", msg) }

func (c *Console) write(col *color.Color, prefix, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	col.Fprint(c.out, prefix)
	fmt.Fprintln(c.out, msg)
}

// Prompt asks a y/N question on in and echoes the prompt to out.
// Anything other than y/yes declines.
type Prompt struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a confirmer reading answers from in.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Confirm prints prompt and waits for an answer.
func (p *Prompt) Confirm(prompt string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	color.New(color.FgYellow).Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// AutoConfirm approves every prompt. Backs --yes flags.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string) bool { return true }

// Kind labels a recorded notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Message is one recorded notification.
type Message struct {
	Kind Kind
	Text string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(KindError, msg) }
func (r *Recorder) Info(msg string)    { r.add(KindInfo, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Kind: k, Text: msg})
	r.mu.Unlock()
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent notification, or the zero Message.
func (r *Recorder) Last() Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}
	}
	return r.messages[len(r.messages)-1]
}

// StaticConfirmer answers every prompt with Answer and remembers the prompts.
type StaticConfirmer struct {
	Answer bool

	mu      sync.Mutex
	prompts []string
}

func (s *StaticConfirmer) Confirm(prompt string) bool {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	return s.Answer
}

// Prompts returns the prompts seen so far.
func (s *StaticConfirmer) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
