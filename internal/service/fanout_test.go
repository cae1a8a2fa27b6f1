package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/mocks"
	"github.com/vedran77/pulse-channels/internal/repository"
	"github.com/vedran77/pulse-channels/internal/repository/kv"
	"go.uber.org/mock/gomock"
)

func nextEvent[T any](t *testing.T, sub *Subscription[T]) domain.Snapshot[T] {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		if !ok {
			t.Fatalf("subscription ended: %v", sub.Err())
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return domain.Snapshot[T]{}
	}
}

func Test_RevealChange(t *testing.T) {
	req := require.New(t)
	live := domain.GroupChannel{ID: uuid.New(), Name: "eng"}
	archived := live
	archived.IsDeleted = true
	visible := func(c domain.GroupChannel) bool { return !c.IsDeleted }

	added := RevealChange(domain.Added(live), visible)
	req.Nil(added.Previous)
	req.Equal(live, *added.Latest)

	updated := RevealChange(domain.Updated(live, archived), visible)
	req.Equal(live, *updated.Previous)
	req.Nil(updated.Latest)

	removed := RevealChange(domain.Removed(archived), visible)
	req.Nil(removed.Previous)
	req.Nil(removed.Latest)

	hidden := RevealChange(domain.Updated(live, live), func(domain.GroupChannel) bool { return false })
	req.Nil(hidden.Previous)
	req.Nil(hidden.Latest)
}

func Test_SubscribeChannels_FiltersByMembership(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.addUser(t, "u1")
	u3 := f.addUser(t, "u3")

	sub, err := f.fanout.SubscribeChannels(ctx, u3.user.ID, f.workspace)
	req.NoError(err)
	defer sub.Close()

	// Given a channel u3 is not part of
	ch, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)

	// Then u3 is told something happened but sees nothing
	created := nextEvent(t, sub)
	req.Nil(created.Previous)
	req.Nil(created.Latest)

	// When u3 joins and the channel is archived
	_, err = f.service.Join(ctx, u3.user.ID, f.workspace, "eng", MemberKeyInput{EncryptedPrivateKey: []byte{1}})
	req.NoError(err)
	_, err = f.service.Archive(ctx, u1.user.ID, f.workspace, ch.ID)
	req.NoError(err)

	// Then the previous state is revealed and the archived one is not
	archived := nextEvent(t, sub)
	req.NotNil(archived.Previous)
	req.Equal(ch.ID, archived.Previous.ID)
	req.False(archived.Previous.IsDeleted)
	req.Nil(archived.Latest)
}

func Test_SubscribeDMChannelsAndMembers_ScopedToSubscriber(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	a := f.addUser(t, "a")
	b := f.addUser(t, "b")
	outsider := f.addUser(t, "outsider")

	subscribe := func(userID uuid.UUID) (*Subscription[domain.DMChannel], *Subscription[domain.ChannelMember]) {
		dms, err := f.fanout.SubscribeDMChannels(ctx, userID, f.workspace)
		req.NoError(err)
		t.Cleanup(dms.Close)
		members, err := f.fanout.SubscribeMembers(ctx, userID, f.workspace)
		req.NoError(err)
		t.Cleanup(members.Close)
		return dms, members
	}
	aDMs, aMembers := subscribe(a.user.ID)
	outsiderDMs, outsiderMembers := subscribe(outsider.user.ID)

	// Given a opens a DM with b
	dm, err := f.service.CreateDMChannel(ctx, a.user.ID, f.workspace, CreateDMInput{ReceiverID: b.user.ID})
	req.NoError(err)

	// Then a sees the DM and its own membership only
	created := nextEvent(t, aDMs)
	req.Nil(created.Previous)
	req.Equal(dm.ID, created.Latest.ID)
	own := nextEvent(t, aMembers)
	req.Equal(a.user.ID, own.Latest.MemberID)
	req.Equal(dm.ID, own.Latest.ChannelID)

	// When the outsider opens its own DM with b
	mine, err := f.service.CreateDMChannel(ctx, outsider.user.ID, f.workspace, CreateDMInput{ReceiverID: b.user.ID})
	req.NoError(err)

	// Then that is the first change the outsider is shown on either stream
	req.Equal(mine.ID, nextEvent(t, outsiderDMs).Latest.ID)
	membership := nextEvent(t, outsiderMembers)
	req.Equal(outsider.user.ID, membership.Latest.MemberID)
	req.Equal(mine.ID, membership.Latest.ChannelID)

	// And a's next membership change is its own, not b's copy of the key
	ch, err := f.service.CreateGroupChannel(ctx, a.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)
	next := nextEvent(t, aMembers)
	req.Equal(a.user.ID, next.Latest.MemberID)
	req.Equal(ch.ID, next.Latest.ChannelID)
}

func Test_Subscription_CloseEndsWithoutError(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	sub, err := f.fanout.SubscribeChannels(context.Background(), uuid.New(), f.workspace)
	req.NoError(err)

	sub.Close()

	_, ok := <-sub.Events()
	req.False(ok)
	req.NoError(sub.Err())
}

func Test_Subscription_ReportsUpstreamFailure(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	sub, err := f.fanout.SubscribeMembers(context.Background(), uuid.New(), f.workspace)
	req.NoError(err)

	// When the store shuts down underneath the subscriber
	req.NoError(f.store.Close())

	// Then the subscription ends with the store's reason
	_, ok := <-sub.Events()
	req.False(ok)
	req.ErrorIs(sub.Err(), kv.ErrClosed)
}

func Test_Subscription_ContextCancel(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := f.fanout.SubscribeDMChannels(ctx, uuid.New(), f.workspace)
	req.NoError(err)

	cancel()

	_, ok := <-sub.Events()
	req.False(ok)
	req.NoError(sub.Err())
}

func Test_SubscribeChannels_CachedAuthorizationFlushedOnMembershipChange(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixtureWithTTL(t, time.Hour)
	u1 := f.addUser(t, "u1")
	u2 := f.addUser(t, "u2")

	sub, err := f.fanout.SubscribeChannels(ctx, u2.user.ID, f.workspace)
	req.NoError(err)
	defer sub.Close()

	ch, err := f.service.CreateGroupChannel(ctx, u1.user.ID, f.workspace, CreateChannelInput{Name: "eng"})
	req.NoError(err)
	created := nextEvent(t, sub)
	req.Nil(created.Latest)

	// When u2 joins, the cached denial does not outlive the membership change
	_, err = f.service.Join(ctx, u2.user.ID, f.workspace, "eng", MemberKeyInput{EncryptedPrivateKey: []byte{1}})
	req.NoError(err)

	// The join is applied to the cache before the archive is rendered
	_, err = f.service.Archive(ctx, u1.user.ID, f.workspace, ch.ID)
	req.NoError(err)

	archived := nextEvent(t, sub)
	req.NotNil(archived.Previous)
	req.Nil(archived.Latest)
}

func Test_SubscribeChannels_AuthorizerFailureHidesSnapshot(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	feed := mocks.NewMockChangeFeed(ctrl)
	store := mocks.NewMockChannelStore(ctrl)
	ws, user := uuid.New(), uuid.New()
	topic := repository.NewTopic[domain.GroupChannel](4)
	defer topic.Close(nil)

	feed.EXPECT().WatchChannels(gomock.Any(), ws).DoAndReturn(topic.Subscribe)
	store.EXPECT().IsMember(gomock.Any(), user, ws, gomock.Any()).Return(false, errors.New("connection reset"))

	fanout := NewChangeStreamFanout(feed, NewMembershipAuthorizer(store), logs.GetLoggerFromLevel(slog.LevelDebug), 0)
	sub, err := fanout.SubscribeChannels(context.Background(), user, ws)
	req.NoError(err)
	defer sub.Close()

	topic.Publish(ws, domain.Added(domain.GroupChannel{ID: uuid.New(), WorkspaceID: ws}))

	ev := nextEvent(t, sub)
	req.Nil(ev.Previous)
	req.Nil(ev.Latest)
}

func Test_CachedAuthorizer_Expiry(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChannelStore(ctrl)
	ws, user, channel := uuid.New(), uuid.New(), uuid.New()
	clock := time.Now()

	cache := newCachedAuthorizer(NewMembershipAuthorizer(store), time.Minute)
	cache.now = func() time.Time { return clock }

	gomock.InOrder(
		store.EXPECT().IsMember(gomock.Any(), user, ws, channel).Return(false, nil),
		store.EXPECT().IsMember(gomock.Any(), user, ws, channel).Return(true, nil),
		store.EXPECT().IsMember(gomock.Any(), user, ws, channel).Return(false, nil),
	)

	for range 3 {
		ok, err := cache.IsAuthorized(context.Background(), user, ws, channel)
		req.NoError(err)
		req.False(ok)
	}

	clock = clock.Add(2 * time.Minute)
	ok, err := cache.IsAuthorized(context.Background(), user, ws, channel)
	req.NoError(err)
	req.True(ok)

	cache.Flush()
	ok, err = cache.IsAuthorized(context.Background(), user, ws, channel)
	req.NoError(err)
	req.False(ok)
}
