package service

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"log/slog"
	"sync"
	"testing"
	"time"

	"filippo.io/age"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/keys"
	"github.com/vedran77/pulse-channels/internal/repository/kv"
	"github.com/vedran77/pulse-channels/pkg/apperror"
)

// RSA key generation is slow; tests share a small pool of member keys.
var memberKeys = sync.OnceValue(func() []*rsa.PrivateKey {
	pool := make([]*rsa.PrivateKey, 3)
	for i := range pool {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		pool[i] = key
	}
	return pool
})

type fixture struct {
	store      *kv.Store
	keyManager *keys.KeyManager
	service    *ChannelService
	fanout     *ChangeStreamFanout
	workspace  uuid.UUID
	nextKey    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithTTL(t, 0)
}

func newFixtureWithTTL(t *testing.T, cacheTTL time.Duration) *fixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	store, err := kv.Open("", true, log, 32)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	keyManager := keys.NewKeyManager()
	return &fixture{
		store:      store,
		keyManager: keyManager,
		service:    NewChannelService(store, store, keyManager, keys.NewEncryptor(), log, 4),
		fanout:     NewChangeStreamFanout(store, NewMembershipAuthorizer(store), log, cacheTTL),
		workspace:  uuid.New(),
	}
}

type member struct {
	user *domain.User
	key  *rsa.PrivateKey
}

func (f *fixture) addUser(t *testing.T, username string) member {
	t.Helper()
	key := memberKeys()[f.nextKey%len(memberKeys())]
	f.nextKey++

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	user := &domain.User{
		ID:          uuid.New(),
		WorkspaceID: f.workspace,
		Username:    username,
		DisplayName: username,
		PublicKey:   der,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, f.store.PutUser(context.Background(), user))
	return member{user: user, key: key}
}

// unwrap does what a client does with its membership record.
func (m member) unwrap(t *testing.T, ciphertext []byte) []byte {
	t.Helper()
	plaintext, err := m.key.Decrypt(nil, ciphertext, &rsa.OAEPOptions{Hash: crypto.SHA256, MGFHash: crypto.SHA1})
	require.NoError(t, err)
	return plaintext
}

func (m member) wrapFor(t *testing.T, secret []byte, other member) []byte {
	t.Helper()
	wrapped, err := keys.NewEncryptor().Wrap(secret, other.user.PublicKey)
	require.NoError(t, err)
	return wrapped.Ciphertext
}

func memberRecord(members []domain.ChannelMember, userID uuid.UUID) *domain.ChannelMember {
	for i := range members {
		if members[i].MemberID == userID {
			return &members[i]
		}
	}
	return nil
}

func Test_CreateGroupChannel_CreatorIsSoleMember(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.addUser(t, "u1")

	ch, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)
	req.Equal("eng", ch.Name)
	req.NotEmpty(ch.PublicKey)

	members, err := f.service.ListMembers(ctx, u1.user.ID, f.workspace, ch.ID)
	req.NoError(err)
	req.Len(members, 1)
	req.Equal(u1.user.ID, members[0].MemberID)

	// Then the creator's copy opens the channel key pair
	identity, err := age.ParseX25519Identity(string(u1.unwrap(t, members[0].EncryptedPrivateKey)))
	req.NoError(err)
	req.Equal(string(ch.PublicKey), identity.Recipient().String())

	// And no key material is left behind
	req.Zero(f.keyManager.Staged())
	_, err = f.keyManager.Get(ch.ID)
	req.ErrorIs(err, keys.ErrKeyNotFound)
}

func Test_CreateGroupChannel_DuplicateName(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.addUser(t, "u1")

	_, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)

	_, err = f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.ErrorIs(err, ErrChannelNameTaken)
	req.Equal(apperror.CodeAlreadyExists, apperror.CodeOf(err))

	// Archiving frees the name
	channels, err := f.service.ListChannels(ctx, u1.user.ID, f.workspace)
	req.NoError(err)
	req.Len(channels, 1)
	_, err = f.service.Archive(ctx, u1.user.ID, f.workspace, channels[0].ID)
	req.NoError(err)

	_, err = f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)
}

func Test_CreateGroupChannel_AvatarAndBlankName(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.addUser(t, "u1")
	avatar := "https://cdn.example/eng.png"

	ch, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: " eng ", AvatarURL: &avatar})
	req.NoError(err)
	req.Equal("eng", ch.Name)
	req.Equal(avatar, *ch.AvatarURL)

	_, err = f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "   "})
	req.ErrorIs(err, ErrInvalidName)
}

func Test_CreateDMChannel_OrderIndependent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	a := f.addUser(t, "a")
	b := f.addUser(t, "b")

	first, err := f.service.CreateDMChannel(ctx, a.user.ID, f.workspace, CreateDMInput{ReceiverID: b.user.ID})
	req.NoError(err)

	second, err := f.service.CreateDMChannel(ctx, b.user.ID, f.workspace, CreateDMInput{ReceiverID: a.user.ID})
	req.NoError(err)
	req.Equal(first.ID, second.ID)
	req.Equal(first.PublicKey, second.PublicKey)

	// Both participants hold their own copy of the same key
	members, err := f.service.ListMembers(ctx, b.user.ID, f.workspace, first.ID)
	req.NoError(err)
	req.Len(members, 2)
	fromA := a.unwrap(t, memberRecord(members, a.user.ID).EncryptedPrivateKey)
	fromB := b.unwrap(t, memberRecord(members, b.user.ID).EncryptedPrivateKey)
	req.Equal(fromA, fromB)

	dms, err := f.service.ListDMChannels(ctx, a.user.ID, f.workspace)
	req.NoError(err)
	req.Len(dms, 1)
}

func Test_CreateDMChannel_Rejections(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	a := f.addUser(t, "a")

	_, err := f.service.CreateDMChannel(ctx, a.user.ID, f.workspace, CreateDMInput{ReceiverID: a.user.ID})
	req.ErrorIs(err, ErrCannotDMSelf)

	_, err = f.service.CreateDMChannel(ctx, a.user.ID, f.workspace, CreateDMInput{ReceiverID: uuid.New()})
	req.ErrorIs(err, ErrUserNotFound)
	req.Equal(apperror.CodeNotFound, apperror.CodeOf(err))
	req.Zero(f.keyManager.Staged())
}

func Test_CreateDMChannel_UnregisteredSender_RetrySucceeds(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	b := f.addUser(t, "b")
	senderID := uuid.New()

	// Given a sender that has not published a key yet
	_, err := f.service.CreateDMChannel(ctx, senderID, f.workspace, CreateDMInput{ReceiverID: b.user.ID})
	req.ErrorIs(err, ErrUserNotFound)

	// Then no DM was left behind
	dms, err := f.service.ListDMChannels(ctx, b.user.ID, f.workspace)
	req.NoError(err)
	req.Empty(dms)

	// When the sender registers and retries
	key := memberKeys()[2]
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	req.NoError(err)
	req.NoError(f.store.PutUser(ctx, &domain.User{ID: senderID, WorkspaceID: f.workspace, Username: "a", PublicKey: der, CreatedAt: time.Now().UTC()}))

	dm, err := f.service.CreateDMChannel(ctx, senderID, f.workspace, CreateDMInput{ReceiverID: b.user.ID})
	req.NoError(err)

	// Then both participants hold a key copy
	members, err := f.service.ListMembers(ctx, b.user.ID, f.workspace, dm.ID)
	req.NoError(err)
	req.Len(members, 2)
	req.NotNil(memberRecord(members, senderID))
}

func Test_Invite_Idempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.addUser(t, "u1")
	u2 := f.addUser(t, "u2")

	ch, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)
	input := InviteInput{User: "u2", MemberKeyInput: MemberKeyInput{EncryptedPrivateKey: []byte{1, 2, 3}}}

	first, err := f.service.Invite(ctx, u1.user.ID, f.workspace, ch.ID.String(), input)
	req.NoError(err)
	req.Len(first, 2)

	// When the same user is invited again, by id and through the channel name
	input.User = u2.user.ID.String()
	second, err := f.service.Invite(ctx, u1.user.ID, f.workspace, "eng", input)
	req.NoError(err)

	// Then the member list is unchanged
	req.Len(second, 2)
	req.Equal(first, second)
}

func Test_Invite_Failures(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.addUser(t, "u1")
	outsider := f.addUser(t, "outsider")

	ch, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)
	key := MemberKeyInput{EncryptedPrivateKey: []byte{1}}

	_, err = f.service.Invite(ctx, u1.user.ID, f.workspace, "nope", InviteInput{User: "outsider", MemberKeyInput: key})
	req.ErrorIs(err, ErrChannelNotFound)

	_, err = f.service.Invite(ctx, u1.user.ID, f.workspace, "eng", InviteInput{User: "ghost", MemberKeyInput: key})
	req.ErrorIs(err, ErrUserNotFound)

	_, err = f.service.Invite(ctx, u1.user.ID, f.workspace, "eng", InviteInput{User: "outsider"})
	req.ErrorIs(err, ErrMissingWrappedKey)

	_, err = f.service.Invite(ctx, outsider.user.ID, f.workspace, "eng", InviteInput{User: "outsider", MemberKeyInput: key})
	req.ErrorIs(err, ErrNotChannelMember)

	// Another workspace resolves neither the user nor the channel
	_, err = f.service.Invite(ctx, u1.user.ID, uuid.New(), ch.ID.String(), InviteInput{User: "outsider", MemberKeyInput: key})
	req.Equal(apperror.CodeNotFound, apperror.CodeOf(err))

	members, err := f.service.ListMembers(ctx, u1.user.ID, f.workspace, ch.ID)
	req.NoError(err)
	req.Len(members, 1)
}

func Test_Join(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.addUser(t, "u1")
	u2 := f.addUser(t, "u2")

	ch, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)

	_, err = f.service.GetChannel(ctx, u2.user.ID, f.workspace, ch.ID)
	req.ErrorIs(err, ErrNotChannelMember)

	members, err := f.service.Join(ctx, u2.user.ID, f.workspace, "eng", MemberKeyInput{EncryptedPrivateKey: []byte{7}})
	req.NoError(err)
	req.Len(members, 2)

	got, err := f.service.GetChannel(ctx, u2.user.ID, f.workspace, ch.ID)
	req.NoError(err)
	req.Equal(ch.ID, got.ID)

	channels, err := f.service.ListChannels(ctx, u2.user.ID, f.workspace)
	req.NoError(err)
	req.Len(channels, 1)
}

func Test_Archive(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.addUser(t, "u1")
	u2 := f.addUser(t, "u2")

	ch, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)

	_, err = f.service.Archive(ctx, u2.user.ID, f.workspace, ch.ID)
	req.ErrorIs(err, ErrNotChannelMember)

	archived, err := f.service.Archive(ctx, u1.user.ID, f.workspace, ch.ID)
	req.NoError(err)
	req.True(archived.IsDeleted)

	_, err = f.service.GetChannel(ctx, u1.user.ID, f.workspace, ch.ID)
	req.ErrorIs(err, ErrChannelNotFound)
	_, err = f.service.Join(ctx, u2.user.ID, f.workspace, ch.ID.String(), MemberKeyInput{EncryptedPrivateKey: []byte{1}})
	req.ErrorIs(err, ErrChannelNotFound)
}

func Test_EndToEnd_KeyDistribution(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.addUser(t, "u1")
	u2 := f.addUser(t, "u2")

	// Given u1 creates "eng"
	ch, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)
	members, err := f.service.ListMembers(ctx, u1.user.ID, f.workspace, ch.ID)
	req.NoError(err)
	req.Len(members, 1)

	// When u1 unwraps its copy and re-wraps it for u2
	channelKey := u1.unwrap(t, members[0].EncryptedPrivateKey)
	members, err = f.service.Invite(ctx, u1.user.ID, f.workspace, ch.ID.String(), InviteInput{
		User:           "u2",
		MemberKeyInput: MemberKeyInput{EncryptedPrivateKey: u1.wrapFor(t, channelKey, u2)},
	})
	req.NoError(err)

	// Then both members hold different ciphertexts of the same key
	req.Len(members, 2)
	copy1 := memberRecord(members, u1.user.ID).EncryptedPrivateKey
	copy2 := memberRecord(members, u2.user.ID).EncryptedPrivateKey
	req.NotEqual(copy1, copy2)
	req.Equal(u1.unwrap(t, copy1), u2.unwrap(t, copy2))

	identity, err := age.ParseX25519Identity(string(u2.unwrap(t, copy2)))
	req.NoError(err)
	req.Equal(string(ch.PublicKey), identity.Recipient().String())
}
