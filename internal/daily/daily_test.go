package daily

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-daily/assets"
	"github.com/robalobadob/wordle-daily/internal/db"
	"github.com/robalobadob/wordle-daily/internal/words"
)

func list(n int) []words.Entry {
	out := make([]words.Entry, n)
	for i := range out {
		out[i] = words.Entry{Word: fmt.Sprintf("W%04d", i)}
	}
	return out
}

func TestDayIndex_Epoch(t *testing.T) {
	assert.Equal(t, 0, DayIndex(Epoch))
	assert.Equal(t, 0, DayIndex(Epoch.Add(23*time.Hour+59*time.Minute)))
	assert.Equal(t, 1, DayIndex(Epoch.Add(24*time.Hour)))
	assert.Equal(t, -1, DayIndex(Epoch.Add(-time.Minute)))
}

func TestDayIndex_ReferenceZoneBoundary(t *testing.T) {
	// 18:29 UTC is 23:59 in the reference zone; 18:30 UTC is the next day there.
	before := time.Date(2025, time.November, 20, 18, 29, 0, 0, time.UTC)
	after := time.Date(2025, time.November, 20, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, 4, DayIndex(before))
	assert.Equal(t, 5, DayIndex(after))
	assert.Equal(t, "2025-11-20", DateKey(before))
	assert.Equal(t, "2025-11-21", DateKey(after))
}

func TestSelect_SameDayAnyClock(t *testing.T) {
	entries := list(7)
	ref := time.Date(2026, time.March, 3, 12, 0, 0, 0, Zone)
	want := Select(ref, entries)

	zones := []*time.Location{
		time.UTC,
		time.FixedZone("PST", -8*3600),
		time.FixedZone("JST", 9*3600),
		time.FixedZone("NPT", 5*3600+45*60),
	}
	dayStart := time.Date(2026, time.March, 3, 0, 0, 0, 0, Zone)
	for _, off := range []time.Duration{0, time.Second, 6 * time.Hour, 23*time.Hour + 59*time.Minute} {
		for _, z := range zones {
			got := Select(dayStart.Add(off).In(z), entries)
			assert.Equal(t, want, got, "offset %s zone %s", off, z)
		}
	}
	assert.NotEqual(t, want, Select(dayStart.Add(24*time.Hour), entries))
}

func TestWordIndex_WrapsBeforeEpoch(t *testing.T) {
	n := 7
	for d := -30; d <= 30; d++ {
		idx := WordIndex(Epoch.AddDate(0, 0, d), n)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, n)
		assert.Equal(t, ((d%n)+n)%n, idx, "day %d", d)
	}
	assert.Equal(t, n-1, WordIndex(Epoch.AddDate(0, 0, -1), n))
	assert.Equal(t, 0, WordIndex(Epoch, 0))
}

func TestSelect_CyclesThroughList(t *testing.T) {
	entries := list(3)
	assert.Equal(t, entries[0], Select(Epoch, entries))
	assert.Equal(t, entries[1], Select(Epoch.AddDate(0, 0, 1), entries))
	assert.Equal(t, entries[2], Select(Epoch.AddDate(0, 0, 2), entries))
	assert.Equal(t, entries[0], Select(Epoch.AddDate(0, 0, 3), entries))
}

func TestSeenStores(t *testing.T) {
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.Migrate(conn, assets.Migrations()))

	ctx := context.Background()
	for name, st := range map[string]SeenStore{"memory": NewMemoryStore(), "sqlite": NewStore(conn)} {
		t.Run(name, func(t *testing.T) {
			seen, err := st.Seen(ctx, "p1", "2025-11-16")
			require.NoError(t, err)
			assert.False(t, seen)

			require.NoError(t, st.MarkSeen(ctx, "p1", "2025-11-16"))
			require.NoError(t, st.MarkSeen(ctx, "p1", "2025-11-16"))

			seen, err = st.Seen(ctx, "p1", "2025-11-16")
			require.NoError(t, err)
			assert.True(t, seen)

			seen, err = st.Seen(ctx, "p1", "2025-11-17")
			require.NoError(t, err)
			assert.False(t, seen, "the flag is per day")
		})
	}
}
