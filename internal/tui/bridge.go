package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/sqfree/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the sweep goroutine can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIResultReporter implements orchestration.ResultReporter.
// Each finished point is forwarded to next (the CSV export, when enabled)
// and then sent to the dashboard tagged with its sweep generation.
type TUIResultReporter struct {
	ref        *programRef
	next       orchestration.ResultReporter
	generation uint64
}

// Verify interface compliance.
var _ orchestration.ResultReporter = (*TUIResultReporter)(nil)

// ReportResult forwards r downstream and to the dashboard.
func (t *TUIResultReporter) ReportResult(r orchestration.Result) {
	if t.next != nil {
		t.next.ReportResult(r)
	}
	t.ref.Send(ResultMsg{Result: r, Generation: t.generation})
}
