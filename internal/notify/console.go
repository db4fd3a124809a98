package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	subjectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ConsoleSender writes one line per event to a terminal or log stream.
type ConsoleSender struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSender creates a sender writing to w.
func NewConsoleSender(w io.Writer) *ConsoleSender {
	return &ConsoleSender{w: w}
}

// Name returns the sender name.
func (s *ConsoleSender) Name() string {
	return "console"
}

// Send writes the event message.
func (s *ConsoleSender) Send(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mark := successStyle.Render("✓")
	if !event.Success {
		mark = failureStyle.Render("✗")
	}

	line := fmt.Sprintf("%s %s", mark, event.Message)
	if event.Subject != "" {
		line += " " + subjectStyle.Render("("+event.Subject+")")
	}

	_, err := fmt.Fprintln(s.w, line)

	return err
}
