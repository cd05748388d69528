package tui

import (
	"context"
	"errors"
	"sync"

	"github.com/Veraticus/pocket-ledger/internal/ledger"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/update"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrNotRunning is returned by Confirm when no TUI program is attached.
var ErrNotRunning = errors.New("tui is not running")

// Bridge carries requests from ledger and update goroutines into the running
// program. Open the ledger with the bridge as its Confirmer and Refresh hook.
type Bridge struct {
	program *tea.Program
	mu      sync.Mutex
}

// Ensure we implement the interface.
var _ ledger.Confirmer = (*Bridge)(nil)

// NewBridge creates a bridge with no program attached.
func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
}

func (b *Bridge) current() *tea.Program {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.program
}

func (b *Bridge) send(msg tea.Msg) {
	if p := b.current(); p != nil {
		p.Send(msg)
	}
}

// Confirm shows prompt as a modal and waits for the answer. It must not be
// called from the program's own Update.
func (b *Bridge) Confirm(ctx context.Context, prompt string) (bool, error) {
	p := b.current()
	if p == nil {
		return false, ErrNotRunning
	}

	reply := make(chan bool, 1)
	p.Send(confirmRequestMsg{prompt: prompt, reply: reply})

	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Refresh forwards the ledger's new state to the program.
func (b *Bridge) Refresh(s model.Snapshot) {
	b.send(snapshotMsg{snapshot: s})
}

// UpdateChanged forwards an update flow change to the program.
func (b *Bridge) UpdateChanged(st update.Status) {
	b.send(updateStatusMsg{status: st})
}
