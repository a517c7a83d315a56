package tui

import (
	"sync"

	"ai-docchat/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Bridge forwards controller events into a running tea.Program.
// The controller is built before the program, so the program is attached later;
// events raised before that are dropped.
type Bridge struct {
	mu      sync.RWMutex
	program *tea.Program
}

var _ session.Notifier = &Bridge{}

func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
}

func (b *Bridge) Notify(e session.Event) {
	b.mu.RLock()
	p := b.program
	b.mu.RUnlock()

	if p != nil {
		p.Send(sessionEventMsg(e))
	}
}
