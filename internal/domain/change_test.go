package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestChangeFrom(t *testing.T) {
	prev := GroupChannel{ID: uuid.New(), Name: "eng"}
	next := prev
	next.Name = "engineering"

	t.Run("both nil is not a change", func(t *testing.T) {
		_, ok := ChangeFrom[GroupChannel](nil, nil)
		require.False(t, ok)
	})

	t.Run("latest only is an addition", func(t *testing.T) {
		req := require.New(t)
		c, ok := ChangeFrom(nil, &next)
		req.True(ok)
		req.Equal(ChangeAdded, c.Kind())
		req.Nil(c.Previous())
		req.Equal("engineering", c.Latest().Name)
	})

	t.Run("previous only is a removal", func(t *testing.T) {
		req := require.New(t)
		c, ok := ChangeFrom(&prev, nil)
		req.True(ok)
		req.Equal(ChangeRemoved, c.Kind())
		req.Nil(c.Latest())
	})

	t.Run("both is an update", func(t *testing.T) {
		req := require.New(t)
		c, ok := ChangeFrom(&prev, &next)
		req.True(ok)
		req.Equal(ChangeUpdated, c.Kind())
		s := c.Snapshot()
		req.Equal("eng", s.Previous.Name)
		req.Equal("engineering", s.Latest.Name)
	})
}

func TestCanonicalPair_OrderIndependent(t *testing.T) {
	req := require.New(t)
	a, b := uuid.New(), uuid.New()

	lo1, hi1 := CanonicalPair(a, b)
	lo2, hi2 := CanonicalPair(b, a)

	req.Equal(lo1, lo2)
	req.Equal(hi1, hi2)
	req.LessOrEqual(lo1.String(), hi1.String())
}

func TestDMChannel_HasParticipant(t *testing.T) {
	req := require.New(t)
	dm := DMChannel{SenderID: uuid.New(), ReceiverID: uuid.New()}

	req.True(dm.HasParticipant(dm.SenderID))
	req.True(dm.HasParticipant(dm.ReceiverID))
	req.False(dm.HasParticipant(uuid.New()))
}
