package app

import (
	"bufio"
	"io"
	"sync"
)

// StdinButton emulates the device button on host runs: every line read from
// the input counts as one press. The engine sees each queued press as a
// single held poll, so two quick lines resolve to a double click.
type StdinButton struct {
	mu      sync.Mutex
	pending int
	held    bool
}

// NewStdinButton starts reading presses from r.
func NewStdinButton(r io.Reader) *StdinButton {
	b := &StdinButton{}

	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			b.mu.Lock()
			b.pending++
			b.mu.Unlock()
		}
	}()

	return b
}

// Pressed consumes one queued press per call, releasing the line for one
// poll in between so consecutive presses produce distinct edges.
func (b *StdinButton) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.held {
		b.held = false
		return false
	}
	if b.pending == 0 {
		return false
	}
	b.pending--
	b.held = true
	return true
}
