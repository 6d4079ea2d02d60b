package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edukhmer/notifykit/pkg/scheduler"
)

func TestEvery(t *testing.T) {
	t.Parallel()

	s := scheduler.Every(15 * time.Minute)
	from := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	require.Equal(t, from.Add(15*time.Minute), s.Next(from))
	require.Equal(t, "every 15m0s", s.String())
}

func TestDailyAt(t *testing.T) {
	t.Parallel()

	s := scheduler.DailyAt(8, 0)

	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			name: "before the slot runs same day",
			from: time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly at the slot rolls to tomorrow",
			from: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "after the slot rolls to tomorrow",
			from: time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC),
			want: time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, s.Next(tt.from))
		})
	}

	require.Equal(t, "daily at 08:00", s.String())
}

func TestWeeklyOn(t *testing.T) {
	t.Parallel()

	s := scheduler.WeeklyOn(time.Monday, 8, 0)

	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			name: "midweek jumps to next monday",
			from: time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), // Wednesday
			want: time.Date(2025, 3, 17, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "monday before slot runs same day",
			from: time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC), // Monday
			want: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "monday after slot waits a full week",
			from: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), // Monday
			want: time.Date(2025, 3, 17, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, s.Next(tt.from))
		})
	}

	require.Equal(t, "weekly on Monday at 08:00", s.String())
}
