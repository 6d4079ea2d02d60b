package preference_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edukhmer/notifykit/pkg/notification"
	"github.com/edukhmer/notifykit/pkg/preference"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	p := preference.Default("u1")

	assert.Equal(t, "u1", p.UserID)
	assert.True(t, p.Email.Enabled)
	assert.Equal(t, preference.FrequencyImmediate, p.Email.Frequency)
	assert.Contains(t, p.Email.Types, notification.TypeMissionCreated)
	assert.Contains(t, p.Email.Types, notification.TypeObservationCreated)
	assert.Contains(t, p.Email.Types, notification.TypeApprovalRequired)
	assert.Contains(t, p.Email.Types, notification.TypeAnnouncement)

	assert.False(t, p.SMS.Enabled)
	assert.ElementsMatch(t, []notification.Type{
		notification.TypeApprovalRequired,
		notification.TypeSystemAlert,
	}, p.SMS.Types)

	assert.True(t, p.InApp.Enabled)
	assert.True(t, p.InApp.Sound)
	assert.False(t, p.InApp.Desktop)

	assert.Equal(t, "Asia/Phnom_Penh", p.Timezone)
	assert.Nil(t, p.QuietHoursStart)
	assert.Nil(t, p.QuietHoursEnd)
}

func TestPreferences_EmailWants(t *testing.T) {
	t.Parallel()

	p := preference.Default("u1")
	assert.True(t, p.EmailWants(notification.TypeMissionCreated))
	assert.False(t, p.EmailWants(notification.TypeSystemMaintenance))

	p.Email.Enabled = false
	assert.False(t, p.EmailWants(notification.TypeMissionCreated))
}

func TestPreferences_SMSWants(t *testing.T) {
	t.Parallel()

	p := preference.Default("u1")
	// Disabled by default, even for subscribed types.
	assert.False(t, p.SMSWants(notification.TypeApprovalRequired))

	p.SMS.Enabled = true
	assert.True(t, p.SMSWants(notification.TypeApprovalRequired))
	assert.False(t, p.SMSWants(notification.TypeMissionCreated))
}

func TestPreferences_Location(t *testing.T) {
	t.Parallel()

	p := preference.Default("u1")
	assert.Equal(t, "Asia/Phnom_Penh", p.Location().String())

	p.Timezone = "not-a-zone"
	assert.Equal(t, "Asia/Phnom_Penh", p.Location().String())

	p.Timezone = "Europe/Berlin"
	assert.Equal(t, "Europe/Berlin", p.Location().String())
}

func TestMemoryStore_GetOrCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := preference.NewMemoryStore()

	first, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, first.SMS.Enabled)
	assert.Equal(t, preference.FrequencyImmediate, first.Email.Frequency)

	// Second call returns the same record, no duplicate created.
	second, err := store.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, first.UserID, second.UserID)

	_, err = store.GetOrCreate(ctx, "")
	assert.ErrorIs(t, err, preference.ErrMissingUserID)
}

func TestMemoryStore_GetOrCreate_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := preference.NewMemoryStore()

	var wg sync.WaitGroup
	results := make([]*preference.Preferences, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := store.GetOrCreate(ctx, "u1")
			require.NoError(t, err)
			results[i] = p
		}(i)
	}
	wg.Wait()

	// Everyone observed the same record.
	for _, p := range results {
		require.NotNil(t, p)
		assert.Equal(t, results[0].CreatedAt, p.CreatedAt)
	}
}

func TestMemoryStore_ListByEmailFrequency(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := preference.NewMemoryStore()
	svc := preference.NewService(store)

	_, err := store.GetOrCreate(ctx, "immediate-user")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "daily-user", preference.Patch{
		Email: &preference.EmailSettings{
			Enabled:   true,
			Frequency: preference.FrequencyDaily,
			Types:     []notification.Type{notification.TypeMissionCreated},
		},
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "disabled-user", preference.Patch{
		Email: &preference.EmailSettings{Enabled: false, Frequency: preference.FrequencyDaily},
	})
	require.NoError(t, err)

	daily, err := store.ListByEmailFrequency(ctx, preference.FrequencyDaily)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "daily-user", daily[0].UserID)

	weekly, err := store.ListByEmailFrequency(ctx, preference.FrequencyWeekly)
	require.NoError(t, err)
	assert.Empty(t, weekly)
}

func TestService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("replaces email block wholesale", func(t *testing.T) {
		svc := preference.NewService(preference.NewMemoryStore())

		updated, err := svc.Update(ctx, "u1", preference.Patch{
			Email: &preference.EmailSettings{
				Enabled:   true,
				Frequency: preference.FrequencyWeekly,
				Types:     []notification.Type{notification.TypeAnnouncement},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, preference.FrequencyWeekly, updated.Email.Frequency)
		// Wholesale replace: default types are gone, not merged.
		assert.Equal(t, []notification.Type{notification.TypeAnnouncement}, updated.Email.Types)
		// Untouched blocks retain defaults.
		assert.False(t, updated.SMS.Enabled)
		assert.True(t, updated.InApp.Sound)
	})

	t.Run("sets quiet hours", func(t *testing.T) {
		svc := preference.NewService(preference.NewMemoryStore())

		start, end := 22*60, 6*60
		updated, err := svc.Update(ctx, "u1", preference.Patch{
			QuietHoursStart: &start,
			QuietHoursEnd:   &end,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.QuietHoursStart)
		require.NotNil(t, updated.QuietHoursEnd)
		assert.Equal(t, start, *updated.QuietHoursStart)
		assert.Equal(t, end, *updated.QuietHoursEnd)

		// Clearing removes both bounds.
		updated, err = svc.Update(ctx, "u1", preference.Patch{ClearQuietHours: true})
		require.NoError(t, err)
		assert.Nil(t, updated.QuietHoursStart)
		assert.Nil(t, updated.QuietHoursEnd)
	})

	t.Run("rejects out-of-range quiet hours", func(t *testing.T) {
		svc := preference.NewService(preference.NewMemoryStore())

		bad := 1500
		_, err := svc.Update(ctx, "u1", preference.Patch{QuietHoursStart: &bad})
		assert.ErrorIs(t, err, preference.ErrInvalidQuietHours)
	})

	t.Run("rejects unknown frequency", func(t *testing.T) {
		svc := preference.NewService(preference.NewMemoryStore())

		_, err := svc.Update(ctx, "u1", preference.Patch{
			Email: &preference.EmailSettings{Enabled: true, Frequency: "hourly"},
		})
		assert.ErrorIs(t, err, preference.ErrInvalidFrequency)
	})

	t.Run("persists across reads", func(t *testing.T) {
		store := preference.NewMemoryStore()
		svc := preference.NewService(store)

		tz := "Asia/Bangkok"
		_, err := svc.Update(ctx, "u1", preference.Patch{Timezone: &tz})
		require.NoError(t, err)

		got, err := store.GetOrCreate(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, tz, got.Timezone)
	})
}
