package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-media-shuttle/internal/batch"
	"github.com/litescript/ls-media-shuttle/internal/prompt"
)

// Messages sent from engine goroutines into the program.
type confirmRequestMsg struct {
	title   string
	message string
	reply   chan bool
}

type selectReply struct {
	index int
	ok    bool
}

type selectRequestMsg struct {
	title   string
	options []string
	reply   chan selectReply
}

type notifyMsg struct {
	title    string
	message  string
	severity prompt.Severity
}

type refreshMsg struct{}

type progressMsg batch.Progress

// bridge implements prompt.UI for code running outside the bubbletea
// event loop. Prompts block the calling goroutine until the user answers
// in the browser. It must never be called from Update.
type bridge struct {
	ctx context.Context

	mu      sync.RWMutex
	program *tea.Program
}

func newBridge(ctx context.Context) *bridge {
	return &bridge{ctx: ctx}
}

func (b *bridge) attach(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}

func (b *bridge) send(msg tea.Msg) bool {
	b.mu.RLock()
	p := b.program
	b.mu.RUnlock()
	if p == nil {
		return false
	}
	p.Send(msg)
	return true
}

// Confirm implements prompt.Confirmer. A closed browser answers no.
func (b *bridge) Confirm(title, message string) bool {
	reply := make(chan bool, 1)
	if !b.send(confirmRequestMsg{title: title, message: message, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-b.ctx.Done():
		return false
	}
}

// SelectOne implements prompt.Selector. A closed browser cancels.
func (b *bridge) SelectOne(title string, options []string) (int, bool) {
	reply := make(chan selectReply, 1)
	if !b.send(selectRequestMsg{title: title, options: options, reply: reply}) {
		return -1, false
	}
	select {
	case r := <-reply:
		return r.index, r.ok
	case <-b.ctx.Done():
		return -1, false
	}
}

// Notify implements prompt.Notifier.
func (b *bridge) Notify(title, message string, severity prompt.Severity) {
	b.send(notifyMsg{title: title, message: message, severity: severity})
}

// RefreshView implements prompt.Refresher.
func (b *bridge) RefreshView() {
	b.send(refreshMsg{})
}

func (b *bridge) progress(p batch.Progress) {
	b.send(progressMsg(p))
}
