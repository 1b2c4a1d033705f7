package persist

import (
	"sort"
	"time"

	"github.com/vovakirdan/lunar-lander/internal/lander"
)

// DefaultScoreCap is the number of entries kept in the table.
const DefaultScoreCap = 10

// ScoreEntry is one line of the high-score table.
type ScoreEntry struct {
	Name      string                 `yaml:"name"`
	Score     int                    `yaml:"score"`
	Time      time.Time              `yaml:"time"`
	Breakdown *lander.ScoreBreakdown `yaml:"breakdown,omitempty"`
}

// ScoreRecord is the high-score table: sorted by score descending, ties
// broken by the earlier timestamp, never longer than Cap.
type ScoreRecord struct {
	Cap     int
	Entries []ScoreEntry
}

// NewScoreRecord creates an empty table. A non-positive cap selects
// DefaultScoreCap.
func NewScoreRecord(limit int) *ScoreRecord {
	if limit <= 0 {
		limit = DefaultScoreCap
	}
	return &ScoreRecord{Cap: limit}
}

// ranksAbove reports whether a belongs before b.
func ranksAbove(a, b ScoreEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Time.Before(b.Time)
}

// Record inserts a score and reports whether it made the table.
func (r *ScoreRecord) Record(name string, score int, at time.Time) bool {
	return r.RecordEntry(ScoreEntry{Name: name, Score: score, Time: at})
}

// RecordEntry inserts a full entry and reports whether it made the table.
// An entry equal in score and time to an existing one goes after it.
func (r *ScoreRecord) RecordEntry(e ScoreEntry) bool {
	if r.Cap <= 0 {
		r.Cap = DefaultScoreCap
	}
	e.Name = SanitizeName(e.Name)

	idx := sort.Search(len(r.Entries), func(i int) bool {
		return ranksAbove(e, r.Entries[i])
	})
	if idx >= r.Cap {
		return false
	}

	r.Entries = append(r.Entries, ScoreEntry{})
	copy(r.Entries[idx+1:], r.Entries[idx:])
	r.Entries[idx] = e
	if len(r.Entries) > r.Cap {
		r.Entries = r.Entries[:r.Cap]
	}
	return true
}

// Qualifies reports whether a score would enter the table right now.
func (r *ScoreRecord) Qualifies(score int, at time.Time) bool {
	idx := sort.Search(len(r.Entries), func(i int) bool {
		return ranksAbove(ScoreEntry{Score: score, Time: at}, r.Entries[i])
	})
	limit := r.Cap
	if limit <= 0 {
		limit = DefaultScoreCap
	}
	return idx < limit
}

// Top returns up to n best entries.
func (r *ScoreRecord) Top(n int) []ScoreEntry {
	if n > len(r.Entries) || n < 0 {
		n = len(r.Entries)
	}
	return r.Entries[:n]
}

// Best returns the highest entry, if any.
func (r *ScoreRecord) Best() (ScoreEntry, bool) {
	if len(r.Entries) == 0 {
		return ScoreEntry{}, false
	}
	return r.Entries[0], true
}

// Len returns the number of entries.
func (r *ScoreRecord) Len() int {
	return len(r.Entries)
}

// normalize restores the ordering and cap after entries were loaded.
func (r *ScoreRecord) normalize() {
	if r.Cap <= 0 {
		r.Cap = DefaultScoreCap
	}
	for i := range r.Entries {
		r.Entries[i].Name = SanitizeName(r.Entries[i].Name)
	}
	sort.SliceStable(r.Entries, func(i, j int) bool {
		return ranksAbove(r.Entries[i], r.Entries[j])
	})
	if len(r.Entries) > r.Cap {
		r.Entries = r.Entries[:r.Cap]
	}
}
