package keys

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var ErrBufferClosed = errors.New("secret buffer closed")

// Buffer holds key material outside the Go heap. The backing memory is an
// anonymous mmap region, locked against swap when the rlimit allows it and
// excluded from core dumps. Close zeroes and unmaps it.
//
// A Buffer must not be copied after creation.
type Buffer struct {
	mu     sync.RWMutex
	data   []byte
	locked bool
	closed bool
}

func newBuffer(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret buffer size must be positive, got %d", size)
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("mmap secret buffer: %w", err)
	}

	// mlock can fail under a low RLIMIT_MEMLOCK; the buffer is still
	// zeroed on close, so carry on unlocked.
	locked := unix.Mlock(data) == nil
	_ = unix.Madvise(data, unix.MADV_DONTDUMP)

	return &Buffer{data: data, locked: locked}, nil
}

// NewBufferFrom copies source into a protected buffer and zeroes source.
func NewBufferFrom(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, errors.New("cannot protect empty secret")
	}
	b, err := newBuffer(len(source))
	if err != nil {
		return nil, err
	}
	copy(b.data, source)
	clear(source)
	return b, nil
}

// View calls fn with the secret bytes. fn must not retain the slice.
// Concurrent Views are allowed; Close waits for them to return.
func (b *Buffer) View(fn func(secret []byte) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBufferClosed
	}
	return fn(b.data)
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

func (b *Buffer) Closed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Close zeroes, unlocks and unmaps the buffer. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	clear(b.data)

	var firstErr error
	if b.locked {
		if err := unix.Munlock(b.data); err != nil {
			firstErr = fmt.Errorf("munlock secret buffer: %w", err)
		}
	}
	if err := unix.Munmap(b.data); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("munmap secret buffer: %w", err)
	}
	b.data = nil
	return firstErr
}
