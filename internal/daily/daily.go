// internal/daily/daily.go
//
// Deterministic daily word selection.
// Every instant is first normalised to a fixed reference zone (+05:30) and
// truncated to its calendar day, so all callers agree on "today" regardless of
// their local clock. Day 0 is the epoch below; days before it wrap around the
// list instead of failing.

package daily

import (
	"time"

	"github.com/robalobadob/wordle-daily/internal/words"
)

// Zone is the reference zone that defines when a new puzzle starts.
var Zone = time.FixedZone("IST", 5*60*60+30*60)

// Epoch is the first puzzle day (index 0).
var Epoch = time.Date(2025, time.November, 16, 0, 0, 0, 0, Zone)

const day = 24 * time.Hour

// civil returns midnight UTC of t's calendar date in Zone. Working in UTC
// keeps every day exactly 24h long.
func civil(t time.Time) time.Time {
	y, m, d := t.In(Zone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey returns t's calendar day in Zone as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.In(Zone).Format("2006-01-02")
}

// DayIndex returns the number of whole days between Epoch and t's calendar
// day. It is negative for days before the epoch.
func DayIndex(t time.Time) int {
	return int(civil(t).Sub(civil(Epoch)) / day)
}

// WordIndex maps t onto [0, n). It returns 0 when n <= 0.
func WordIndex(t time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	return ((DayIndex(t) % n) + n) % n
}

// Select returns the entry for t's day. list must be non-empty.
func Select(t time.Time, list []words.Entry) words.Entry {
	return list[WordIndex(t, len(list))]
}
