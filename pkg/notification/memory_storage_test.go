package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edukhmer/notifykit/pkg/notification"
)

func newStored(t *testing.T, s *notification.MemoryStorage, userID string, typ notification.Type) notification.Notification {
	t.Helper()
	n := notification.New(userID, typ, "title", "message")
	require.NoError(t, s.Create(context.Background(), n))
	return n
}

func TestMemoryStorage_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := notification.NewMemoryStorage()

	t.Run("requires id", func(t *testing.T) {
		n := notification.New("u1", notification.TypeSystemAlert, "T", "M")
		n.ID = ""
		assert.ErrorIs(t, s.Create(ctx, n), notification.ErrMissingID)
	})

	t.Run("requires recipient", func(t *testing.T) {
		n := notification.New("", notification.TypeSystemAlert, "T", "M")
		assert.ErrorIs(t, s.Create(ctx, n), notification.ErrMissingRecipient)
	})

	t.Run("stores row", func(t *testing.T) {
		n := newStored(t, s, "u1", notification.TypeMissionCreated)
		got, err := s.Get(ctx, "u1", n.ID)
		require.NoError(t, err)
		assert.Equal(t, n.ID, got.ID)
	})
}

func TestMemoryStorage_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := notification.NewMemoryStorage()
	n := newStored(t, s, "u1", notification.TypeMissionCreated)

	t.Run("found", func(t *testing.T) {
		got, err := s.Get(ctx, "u1", n.ID)
		require.NoError(t, err)
		assert.Equal(t, n.Title, got.Title)
	})

	t.Run("wrong user", func(t *testing.T) {
		_, err := s.Get(ctx, "u2", n.ID)
		assert.ErrorIs(t, err, notification.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Get(ctx, "u1", "missing")
		assert.ErrorIs(t, err, notification.ErrNotFound)
	})

	t.Run("expired hidden", func(t *testing.T) {
		exp := notification.New("u1", notification.TypeSystemAlert, "T", "M")
		past := time.Now().Add(-time.Minute)
		exp.ExpiresAt = &past
		require.NoError(t, s.Create(ctx, exp))

		_, err := s.Get(ctx, "u1", exp.ID)
		assert.ErrorIs(t, err, notification.ErrNotFound)
	})
}

func TestMemoryStorage_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := notification.NewMemoryStorage()

	base := time.Now().Add(-time.Hour)
	mkAt := func(typ notification.Type, prio notification.Priority, at time.Time, read bool) notification.Notification {
		n := notification.New("u1", typ, "T", "M")
		n.Priority = prio
		n.CreatedAt = at
		if read {
			n.MarkAsRead(at.Add(time.Minute))
		}
		require.NoError(t, s.Create(ctx, n))
		return n
	}

	oldest := mkAt(notification.TypeMissionCreated, notification.PriorityLow, base, true)
	middle := mkAt(notification.TypeApprovalRequired, notification.PriorityUrgent, base.Add(10*time.Minute), false)
	newest := mkAt(notification.TypeAnnouncement, notification.PriorityMedium, base.Add(20*time.Minute), false)

	t.Run("newest first", func(t *testing.T) {
		items, total, err := s.List(ctx, "u1", notification.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, items, 3)
		assert.Equal(t, newest.ID, items[0].ID)
		assert.Equal(t, oldest.ID, items[2].ID)
	})

	t.Run("filter unread", func(t *testing.T) {
		unread := false
		items, total, err := s.List(ctx, "u1", notification.ListFilter{Read: &unread})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, items, 2)
	})

	t.Run("filter types", func(t *testing.T) {
		items, total, err := s.List(ctx, "u1", notification.ListFilter{
			Types: []notification.Type{notification.TypeApprovalRequired},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, middle.ID, items[0].ID)
	})

	t.Run("filter priorities", func(t *testing.T) {
		_, total, err := s.List(ctx, "u1", notification.ListFilter{
			Priorities: []notification.Priority{notification.PriorityUrgent},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("date range", func(t *testing.T) {
		from := base.Add(5 * time.Minute)
		to := base.Add(15 * time.Minute)
		items, total, err := s.List(ctx, "u1", notification.ListFilter{From: &from, To: &to})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, middle.ID, items[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := s.List(ctx, "u1", notification.ListFilter{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, items, 1)
		assert.Equal(t, oldest.ID, items[0].ID)
	})

	t.Run("page past end", func(t *testing.T) {
		items, total, err := s.List(ctx, "u1", notification.ListFilter{Page: 5, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Empty(t, items)
	})

	t.Run("unknown user", func(t *testing.T) {
		items, total, err := s.List(ctx, "nobody", notification.ListFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})
}

func TestMemoryStorage_MarkRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := notification.NewMemoryStorage()

	n1 := newStored(t, s, "u1", notification.TypeMissionCreated)
	n2 := newStored(t, s, "u1", notification.TypeMissionUpdated)
	n3 := newStored(t, s, "u1", notification.TypeMissionCompleted)

	at := time.Now()
	require.NoError(t, s.MarkRead(ctx, "u1", at, n1.ID, n2.ID, "does-not-exist"))

	for _, id := range []string{n1.ID, n2.ID} {
		got, err := s.Get(ctx, "u1", id)
		require.NoError(t, err)
		assert.True(t, got.Read)
		require.NotNil(t, got.ReadAt)
		assert.Equal(t, at, *got.ReadAt)
	}

	got, err := s.Get(ctx, "u1", n3.ID)
	require.NoError(t, err)
	assert.False(t, got.Read)
	assert.Nil(t, got.ReadAt)

	count, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStorage_MarkAllRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := notification.NewMemoryStorage()

	n1 := newStored(t, s, "u1", notification.TypeMissionCreated)
	n2 := newStored(t, s, "u1", notification.TypeAnnouncement)
	newStored(t, s, "u2", notification.TypeAnnouncement)

	marked, err := s.MarkAllRead(ctx, "u1", time.Now())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{n1.ID, n2.ID}, marked)

	count, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Other users untouched.
	count, err = s.CountUnread(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Second run marks nothing.
	marked, err = s.MarkAllRead(ctx, "u1", time.Now())
	require.NoError(t, err)
	assert.Empty(t, marked)
}

func TestMemoryStorage_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := notification.NewMemoryStorage()

	n1 := newStored(t, s, "u1", notification.TypeMissionCreated)
	n2 := newStored(t, s, "u1", notification.TypeMissionUpdated)

	require.NoError(t, s.Delete(ctx, "u1", n1.ID))

	_, err := s.Get(ctx, "u1", n1.ID)
	assert.ErrorIs(t, err, notification.ErrNotFound)

	_, err = s.Get(ctx, "u1", n2.ID)
	assert.NoError(t, err)
}

func TestMemoryStorage_DeleteExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := notification.NewMemoryStorage()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := notification.New("u1", notification.TypeSystemAlert, "T", "M")
	expired.ExpiresAt = &past
	require.NoError(t, s.Create(ctx, expired))

	keeper := notification.New("u1", notification.TypeSystemAlert, "T", "M")
	keeper.ExpiresAt = &future
	require.NoError(t, s.Create(ctx, keeper))

	forever := newStored(t, s, "u1", notification.TypeAnnouncement)

	deleted, err := s.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Idempotent: second run deletes nothing.
	deleted, err = s.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = s.Get(ctx, "u1", keeper.ID)
	assert.NoError(t, err)
	_, err = s.Get(ctx, "u1", forever.ID)
	assert.NoError(t, err)
}

func TestMemoryStorage_DigestCandidates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := notification.NewMemoryStorage()

	old := notification.New("u1", notification.TypeMissionCreated, "T", "M")
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, s.Create(ctx, old))

	recent := newStored(t, s, "u1", notification.TypeMissionUpdated)

	readOld := notification.New("u1", notification.TypeMissionCompleted, "T", "M")
	readOld.CreatedAt = time.Now().Add(-48 * time.Hour)
	readOld.MarkAsRead(time.Now())
	require.NoError(t, s.Create(ctx, readOld))

	windowStart := time.Now().Add(-24 * time.Hour)

	candidates, err := s.ListDigestCandidates(ctx, "u1", windowStart)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, old.ID, candidates[0].ID)

	require.NoError(t, s.MarkDigestSent(ctx, "u1", old.ID))

	// Marked rows never re-qualify.
	candidates, err = s.ListDigestCandidates(ctx, "u1", windowStart)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	// Still unread, still listed normally.
	got, err := s.Get(ctx, "u1", old.ID)
	require.NoError(t, err)
	assert.False(t, got.Read)
	assert.True(t, got.DigestSent())

	_ = recent
}

func TestMemoryStorage_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := notification.NewMemoryStorage()

	urgent := notification.New("u1", notification.TypeSystemAlert, "T", "M")
	urgent.Priority = notification.PriorityUrgent
	require.NoError(t, s.Create(ctx, urgent))

	newStored(t, s, "u1", notification.TypeMissionCreated)
	read := notification.New("u1", notification.TypeMissionCreated, "T", "M")
	read.MarkAsRead(time.Now())
	require.NoError(t, s.Create(ctx, read))

	stats, err := s.Stats(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Unread)
	assert.Equal(t, 2, stats.ByType[notification.TypeMissionCreated])
	assert.Equal(t, 1, stats.ByType[notification.TypeSystemAlert])
	assert.Equal(t, 1, stats.ByPriority[notification.PriorityUrgent])
	assert.Equal(t, 2, stats.ByPriority[notification.PriorityMedium])
}
