package persist

import (
	"sync"
	"time"
)

// Board caches the loaded settings and score table in memory and writes
// every change through to a Store. All sessions of a process share one
// Board so concurrent landings cannot overwrite each other's entries.
type Board struct {
	mu       sync.Mutex
	store    Store
	settings Settings
	rec      *ScoreRecord
}

// NewBoard loads store. Like Load, it always returns a usable board; the
// error reports a recovery (wrapping ErrRecovered) or a read failure.
func NewBoard(store Store) (*Board, error) {
	settings, rec, err := store.Load()
	if rec == nil {
		rec = NewScoreRecord(DefaultScoreCap)
	}
	return &Board{store: store, settings: settings, rec: rec}, err
}

// Settings returns a copy of the current settings.
func (b *Board) Settings() Settings {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.settings.clone()
}

// Top returns a copy of the n best entries.
func (b *Board) Top(n int) []ScoreEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ScoreEntry(nil), b.rec.Top(n)...)
}

// Best returns the highest entry, if any.
func (b *Board) Best() (ScoreEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rec.Best()
}

// Qualifies reports whether score at time at would make the table.
func (b *Board) Qualifies(score int, at time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rec.Qualifies(score, at)
}

// Record inserts e and saves when it made the table. The entry stays in
// memory even if the save fails.
func (b *Board) Record(e ScoreEntry) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.rec.RecordEntry(e) {
		return false, nil
	}
	return true, b.store.Save(b.settings, b.rec)
}

// UpdateSettings applies fn to a copy of the settings, normalizes the
// result and saves it. The normalized settings are returned even when the
// save fails.
func (b *Board) UpdateSettings(fn func(*Settings)) (Settings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.settings.clone()
	fn(&next)
	next, err := next.Normalize()
	if err != nil {
		return b.settings.clone(), err
	}
	b.settings = next
	return next, b.store.Save(b.settings, b.rec)
}

// Clear empties the score table and saves.
func (b *Board) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rec = NewScoreRecord(b.rec.Cap)
	return b.store.Save(b.settings, b.rec)
}

func (s Settings) clone() Settings {
	bindings := make(map[string][]string, len(s.KeyBindings))
	for k, v := range s.KeyBindings {
		bindings[k] = append([]string(nil), v...)
	}
	s.KeyBindings = bindings
	return s
}
