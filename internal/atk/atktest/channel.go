// Package atktest provides an in-memory device channel for tests.
package atktest

import (
	"sync"

	"codeberg.org/mutker/atkctl/internal/atk"
)

// Call is one recorded control transfer.
type Call struct {
	Code   uint32
	In     []byte
	OutCap int
}

// Channel records every control transfer. Set Fail to make transfers error,
// optionally only from call number FailAt (1-based) onwards.
type Channel struct {
	mu     sync.Mutex
	calls  []Call
	closed bool

	Fail   error
	FailAt int
}

var _ atk.Channel = (*Channel)(nil)

func NewChannel() *Channel {
	return &Channel{}
}

func (c *Channel) Control(code uint32, in []byte, outCap int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := make([]byte, len(in))
	copy(buf, in)
	c.calls = append(c.calls, Call{Code: code, In: buf, OutCap: outCap})

	if c.Fail != nil && len(c.calls) >= c.FailAt {
		return nil, c.Fail
	}

	return make([]byte, 0, outCap), nil
}

func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true

	return nil
}

// Calls returns a copy of the recorded transfers.
func (c *Channel) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Call(nil), c.calls...)
}

func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Channel) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}
