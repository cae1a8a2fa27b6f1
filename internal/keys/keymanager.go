package keys

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"filippo.io/age"
	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/pkg/apperror"
)

var (
	ErrKeyNotFound = apperror.NotFound("channel key pair not found or already discarded")
	ErrKeyStaged   = errors.New("channel key pair already staged")
)

// KeyManager stages one age X25519 key pair per channel for the duration
// of a create request. Staged private keys live in locked memory and are
// destroyed by Discard.
type KeyManager struct {
	mu     sync.Mutex
	staged map[uuid.UUID]*KeyPair
}

func NewKeyManager() *KeyManager {
	return &KeyManager{staged: make(map[uuid.UUID]*KeyPair)}
}

// KeyPair is a channel key pair staged in a KeyManager. Release it with
// Close (usually deferred right after Generate).
type KeyPair struct {
	channelID uuid.UUID
	publicKey []byte
	private   *Buffer
	manager   *KeyManager
}

// Generate creates and stages a fresh key pair for channelID.
func (m *KeyManager) Generate(channelID uuid.UUID) (*KeyPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.staged[channelID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyStaged, channelID)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating channel key pair: %w", err)
	}

	// identity.String() leaves a heap copy behind; the buffer is the copy
	// we control and zero.
	private, err := NewBufferFrom([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting channel private key: %w", err)
	}

	kp := &KeyPair{
		channelID: channelID,
		publicKey: []byte(identity.Recipient().String()),
		private:   private,
		manager:   m,
	}
	m.staged[channelID] = kp
	return kp, nil
}

// Get returns the staged key pair for channelID, or ErrKeyNotFound once it
// has been discarded.
func (m *KeyManager) Get(channelID uuid.UUID) (*KeyPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kp, ok := m.staged[channelID]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return kp, nil
}

// Discard destroys the staged key pair for channelID. Discarding an
// unknown or already discarded channel is a no-op.
func (m *KeyManager) Discard(channelID uuid.UUID) error {
	m.mu.Lock()
	kp, ok := m.staged[channelID]
	delete(m.staged, channelID)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return kp.private.Close()
}

// Staged returns the number of key pairs currently held.
func (m *KeyManager) Staged() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.staged)
}

func (k *KeyPair) ChannelID() uuid.UUID { return k.channelID }

// PublicKey returns the encoded age recipient ("age1...").
func (k *KeyPair) PublicKey() []byte { return bytes.Clone(k.publicKey) }

// WithPrivateKey calls fn with the encoded age identity. The slice is only
// valid inside fn.
func (k *KeyPair) WithPrivateKey(fn func(privateKey []byte) error) error {
	err := k.private.View(fn)
	if errors.Is(err, ErrBufferClosed) {
		return ErrKeyNotFound
	}
	return err
}

// Close discards the key pair from its manager.
func (k *KeyPair) Close() error {
	return k.manager.Discard(k.channelID)
}
