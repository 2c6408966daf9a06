package discord

import (
	"sync"

	"github.com/google/uuid"
)

// prompts routes button clicks to the invocation waiting on them.
type prompts struct {
	mu      sync.Mutex
	waiting map[string]chan string
}

func newPrompts() *prompts {
	return &prompts{waiting: make(map[string]chan string)}
}

// open registers a new prompt and returns its id and answer channel.
func (p *prompts) open() (string, <-chan string) {
	id := uuid.NewString()
	ch := make(chan string, 1)
	p.mu.Lock()
	p.waiting[id] = ch
	p.mu.Unlock()
	return id, ch
}

func (p *prompts) close(id string) {
	p.mu.Lock()
	delete(p.waiting, id)
	p.mu.Unlock()
}

// answer delivers optionID to prompt id. Only the first answer counts; it
// reports false for unknown or already answered prompts.
func (p *prompts) answer(id, optionID string) bool {
	p.mu.Lock()
	ch, ok := p.waiting[id]
	if ok {
		delete(p.waiting, id)
	}
	p.mu.Unlock()
	if !ok {
		return false
	}
	ch <- optionID
	return true
}
