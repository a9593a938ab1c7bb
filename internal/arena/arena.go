// Package arena implements the byte arena pool: grow-only, append-only byte
// buffers identified by small integer ids. Arenas never move or mutate bytes
// already appended, so a slice returned by Read stays valid for the lifetime
// of the pool even as later appends extend the same arena (and any other
// arena keeps growing independently).
package arena

import (
	"fmt"
	"io"
	"sync"
)

// ID identifies one arena within a Pool.
type ID int

// Pool owns a set of byte arenas. The zero value is not usable; construct
// with New. A Pool is safe for concurrent Append/Read from multiple
// goroutines, though the core's single-mainline discipline (see the buffer
// and highlighter packages) means only snapshot reads typically happen off
// the mainline.
type Pool struct {
	mu     sync.RWMutex
	arenas [][]byte
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// NewArena creates a fresh arena seeded with a copy of bytes and returns
// its id; the caller's slice is not retained.
func (p *Pool) NewArena(bytes []byte) ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	buf := make([]byte, len(bytes))
	copy(buf, bytes)
	p.arenas = append(p.arenas, buf)
	return ID(len(p.arenas) - 1)
}

// NewArenaFromReader reads r to completion and seeds a fresh arena with its
// contents. This lets a cmd-level caller hand the pool a file, an embedded
// fixture, or any other io.Reader without the pool or the piece tree above
// it knowing which.
func (p *Pool) NewArenaFromReader(r io.Reader) (ID, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return -1, fmt.Errorf("arena: read source: %w", err)
	}
	return p.NewArena(data), nil
}

// Append appends bytes to the arena named by id and returns the offset at
// which the new bytes begin (the arena's length before the append). It
// fails only if the arena does not exist.
func (p *Pool) Append(id ID, bytes []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.validLocked(id) {
		return 0, fmt.Errorf("arena: no such arena %d", id)
	}
	offset := len(p.arenas[id])
	p.arenas[id] = append(p.arenas[id], bytes...)
	return offset, nil
}

// Read borrows the window [offset, offset+length) of the arena named by id.
// The returned slice aliases the pool's storage and must not be mutated by
// the caller; because arenas never rewrite existing bytes, the slice stays
// valid even as the arena keeps growing.
func (p *Pool) Read(id ID, offset, length int) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.validLocked(id) {
		return nil, fmt.Errorf("arena: no such arena %d", id)
	}
	buf := p.arenas[id]
	if offset < 0 || length < 0 || offset+length > len(buf) {
		return nil, fmt.Errorf("arena: window [%d,%d) out of range for arena %d (len %d)", offset, offset+length, id, len(buf))
	}
	return buf[offset : offset+length], nil
}

// Len returns the current length of the arena named by id, or 0 if it does
// not exist.
func (p *Pool) Len(id ID) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.validLocked(id) {
		return 0
	}
	return len(p.arenas[id])
}

func (p *Pool) validLocked(id ID) bool {
	return id >= 0 && int(id) < len(p.arenas)
}
