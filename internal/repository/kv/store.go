package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/repository"
)

var ErrClosed = errors.New("kv store closed")

// Store is the embedded repository.Store. Writes are serialized so that
// commit order and publish order agree; reads run concurrently.
type Store struct {
	db  *badger.DB
	log *slog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once

	channels *repository.Topic[domain.GroupChannel]
	dms      *repository.Topic[domain.DMChannel]
	members  *repository.Topic[domain.ChannelMember]
}

var _ repository.Store = (*Store)(nil)

// Open opens (or creates) a badger database at path. With inMemory set
// the path is ignored and nothing touches disk.
func Open(path string, inMemory bool, log *slog.Logger, watchBuffer int) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %q: %w", path, err)
	}
	return New(db, log, watchBuffer), nil
}

// New wraps an open database. The store takes ownership of db.
func New(db *badger.DB, log *slog.Logger, watchBuffer int) *Store {
	return &Store{
		db:       db,
		log:      log,
		channels: repository.NewTopic[domain.GroupChannel](watchBuffer),
		dms:      repository.NewTopic[domain.DMChannel](watchBuffer),
		members:  repository.NewTopic[domain.ChannelMember](watchBuffer),
	}
}

// Close ends every open watch with ErrClosed and closes the database.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		s.channels.Close(ErrClosed)
		s.dms.Close(ErrClosed)
		s.members.Close(ErrClosed)
		err = s.db.Close()
		s.log.Info("kv store closed", "error", err)
	})
	return err
}

// Group channels

func (s *Store) GetChannel(_ context.Context, workspaceID, channelID uuid.UUID) (*domain.GroupChannel, error) {
	var ch *domain.GroupChannel
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		ch, err = get[domain.GroupChannel](txn, groupKey(workspaceID, channelID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting channel: %w", err)
	}
	return ch, nil
}

func (s *Store) GetChannelByName(_ context.Context, workspaceID uuid.UUID, name string) (*domain.GroupChannel, error) {
	var ch *domain.GroupChannel
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getID(txn, groupNameKey(workspaceID, name))
		if err != nil || id == uuid.Nil {
			return err
		}
		ch, err = get[domain.GroupChannel](txn, groupKey(workspaceID, id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting channel by name: %w", err)
	}
	return ch, nil
}

func (s *Store) SaveChannel(_ context.Context, ch *domain.GroupChannel) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		nameKey := groupNameKey(ch.WorkspaceID, ch.Name)
		for _, key := range [][]byte{groupKey(ch.WorkspaceID, ch.ID), nameKey} {
			if exists, err := has(txn, key); err != nil {
				return err
			} else if exists {
				return repository.ErrDuplicate
			}
		}
		if err := put(txn, groupKey(ch.WorkspaceID, ch.ID), ch); err != nil {
			return err
		}
		return txn.Set(nameKey, ch.ID[:])
	})
	if err != nil {
		return fmt.Errorf("saving channel: %w", err)
	}

	s.channels.Publish(ch.WorkspaceID, domain.Added(*ch))
	return nil
}

// ArchiveChannel soft-deletes the channel and frees its name. Archiving
// an already archived channel returns it unchanged without a change event.
func (s *Store) ArchiveChannel(_ context.Context, workspaceID, channelID uuid.UUID) (*domain.GroupChannel, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var previous, latest *domain.GroupChannel
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		previous, err = get[domain.GroupChannel](txn, groupKey(workspaceID, channelID))
		if err != nil || previous == nil || previous.IsDeleted {
			latest = previous
			return err
		}

		archived := *previous
		archived.IsDeleted = true
		archived.ModifiedAt = nextModified(previous.ModifiedAt)
		if err := put(txn, groupKey(workspaceID, channelID), &archived); err != nil {
			return err
		}
		if err := txn.Delete(groupNameKey(workspaceID, previous.Name)); err != nil {
			return err
		}
		latest = &archived
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archiving channel: %w", err)
	}

	if previous != nil && latest != previous {
		s.channels.Publish(workspaceID, domain.Updated(*previous, *latest))
	}
	return latest, nil
}

func (s *Store) ListChannels(_ context.Context, workspaceID, userID uuid.UUID) ([]domain.GroupChannel, error) {
	var channels []domain.GroupChannel
	err := s.db.View(func(txn *badger.Txn) error {
		return scanKeys(txn, membershipPrefix(workspaceID, userID), func(key []byte) error {
			channelID, err := lastID(key)
			if err != nil {
				return err
			}
			ch, err := get[domain.GroupChannel](txn, groupKey(workspaceID, channelID))
			if err != nil {
				return err
			}
			// DM memberships share the index and have no group record.
			if ch != nil && !ch.IsDeleted {
				channels = append(channels, *ch)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}

	slices.SortFunc(channels, func(a, b domain.GroupChannel) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return channels, nil
}

// DM channels

func (s *Store) GetDMChannel(_ context.Context, workspaceID, channelID uuid.UUID) (*domain.DMChannel, error) {
	var ch *domain.DMChannel
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		ch, err = get[domain.DMChannel](txn, dmKey(workspaceID, channelID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting dm channel: %w", err)
	}
	return ch, nil
}

func (s *Store) GetDMChannelByParticipants(_ context.Context, workspaceID, userA, userB uuid.UUID) (*domain.DMChannel, error) {
	var ch *domain.DMChannel
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getID(txn, dmPairKey(workspaceID, userA, userB))
		if err != nil || id == uuid.Nil {
			return err
		}
		ch, err = get[domain.DMChannel](txn, dmKey(workspaceID, id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting dm channel by participants: %w", err)
	}
	return ch, nil
}

func (s *Store) SaveDMChannel(_ context.Context, ch *domain.DMChannel) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		pairKey := dmPairKey(ch.WorkspaceID, ch.SenderID, ch.ReceiverID)
		for _, key := range [][]byte{dmKey(ch.WorkspaceID, ch.ID), pairKey} {
			if exists, err := has(txn, key); err != nil {
				return err
			} else if exists {
				return repository.ErrDuplicate
			}
		}
		if err := put(txn, dmKey(ch.WorkspaceID, ch.ID), ch); err != nil {
			return err
		}
		return txn.Set(pairKey, ch.ID[:])
	})
	if err != nil {
		return fmt.Errorf("saving dm channel: %w", err)
	}

	s.dms.Publish(ch.WorkspaceID, domain.Added(*ch))
	return nil
}

func (s *Store) ListDMChannels(_ context.Context, workspaceID, userID uuid.UUID) ([]domain.DMChannel, error) {
	var channels []domain.DMChannel
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, dmPrefix(workspaceID), func(ch domain.DMChannel) error {
			if ch.HasParticipant(userID) && !ch.IsDeleted {
				channels = append(channels, ch)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing dm channels: %w", err)
	}

	slices.SortFunc(channels, func(a, b domain.DMChannel) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return channels, nil
}

// Members

func (s *Store) AddMember(_ context.Context, m *domain.ChannelMember) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	key := memberKey(m.WorkspaceID, m.ChannelID, m.MemberID)
	inserted := false
	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := get[domain.ChannelMember](txn, key)
		if err != nil {
			return err
		}
		if existing != nil && !existing.IsDeleted {
			return nil
		}
		if err := put(txn, key, m); err != nil {
			return err
		}
		if err := txn.Set(membershipKey(m.WorkspaceID, m.MemberID, m.ChannelID), nil); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("adding member: %w", err)
	}

	if inserted {
		s.members.Publish(m.WorkspaceID, domain.Added(*m))
	}
	return inserted, nil
}

func (s *Store) ListMembers(_ context.Context, workspaceID, channelID uuid.UUID) ([]domain.ChannelMember, error) {
	var members []domain.ChannelMember
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, memberPrefix(workspaceID, channelID), func(m domain.ChannelMember) error {
			if !m.IsDeleted {
				members = append(members, m)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	slices.SortFunc(members, func(a, b domain.ChannelMember) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return members, nil
}

func (s *Store) IsMember(_ context.Context, userID, workspaceID, channelID uuid.UUID) (bool, error) {
	var member *domain.ChannelMember
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		member, err = get[domain.ChannelMember](txn, memberKey(workspaceID, channelID, userID))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return member != nil && !member.IsDeleted, nil
}

// Users

// PutUser creates or replaces a directory entry. Usernames are unique per
// workspace, compared case-insensitively.
func (s *Store) PutUser(_ context.Context, u *domain.User) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		nameKey := usernameKey(u.WorkspaceID, u.Username)
		owner, err := getID(txn, nameKey)
		if err != nil {
			return err
		}
		if owner != uuid.Nil && owner != u.ID {
			return repository.ErrDuplicate
		}

		previous, err := get[domain.User](txn, userKey(u.WorkspaceID, u.ID))
		if err != nil {
			return err
		}
		if previous != nil && !bytes.Equal(usernameKey(u.WorkspaceID, previous.Username), nameKey) {
			if err := txn.Delete(usernameKey(u.WorkspaceID, previous.Username)); err != nil {
				return err
			}
		}

		if err := put(txn, userKey(u.WorkspaceID, u.ID), u); err != nil {
			return err
		}
		return txn.Set(nameKey, u.ID[:])
	})
	if err != nil {
		return fmt.Errorf("putting user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(_ context.Context, workspaceID, userID uuid.UUID) (*domain.User, error) {
	var u *domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		u, err = get[domain.User](txn, userKey(workspaceID, userID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, workspaceID uuid.UUID, username string) (*domain.User, error) {
	var u *domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getID(txn, usernameKey(workspaceID, username))
		if err != nil || id == uuid.Nil {
			return err
		}
		u, err = get[domain.User](txn, userKey(workspaceID, id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// Change feed

func (s *Store) WatchChannels(ctx context.Context, workspaceID uuid.UUID) (*repository.Watch[domain.GroupChannel], error) {
	return s.channels.Subscribe(ctx, workspaceID)
}

func (s *Store) WatchDMChannels(ctx context.Context, workspaceID uuid.UUID) (*repository.Watch[domain.DMChannel], error) {
	return s.dms.Subscribe(ctx, workspaceID)
}

func (s *Store) WatchMembers(ctx context.Context, workspaceID uuid.UUID) (*repository.Watch[domain.ChannelMember], error) {
	return s.members.Subscribe(ctx, workspaceID)
}

// Helpers

func get[T any](txn *badger.Txn, key []byte) (*T, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var v T
	if err := item.Value(func(val []byte) error {
		return unmarshal(val, &v)
	}); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", key, err)
	}
	return &v, nil
}

// getID reads an index entry. It returns uuid.Nil when the key is absent.
func getID(txn *badger.Txn, key []byte) (uuid.UUID, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = item.Value(func(val []byte) error {
		id, err = uuid.FromBytes(val)
		return err
	})
	return id, err
}

func has(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func put(txn *badger.Txn, key []byte, v any) error {
	data, err := marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	return txn.Set(key, data)
}

func scan[T any](txn *badger.Txn, prefix []byte, fn func(T) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return unmarshal(val, &v)
		}); err != nil {
			return fmt.Errorf("decoding %q: %w", it.Item().Key(), err)
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

func scanKeys(txn *badger.Txn, prefix []byte, fn func(key []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := fn(it.Item().KeyCopy(nil)); err != nil {
			return err
		}
	}
	return nil
}

// nextModified returns a modification time strictly after previous.
func nextModified(previous time.Time) time.Time {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if !now.After(previous) {
		return previous.Add(time.Millisecond)
	}
	return now
}
