package persist

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	// FileVersion is the schema version written to new files.
	FileVersion = 2
	// endMarkerVersion is the first version that closes the file with end: true.
	endMarkerVersion = 2
)

var (
	// ErrRecovered marks a Load that fell back to defaults because the file
	// could not be used. The returned values are still valid.
	ErrRecovered = errors.New("persist: recovered with defaults")
	// ErrTruncated is returned by decode for a versioned file that lacks its
	// closing marker.
	ErrTruncated = errors.New("persist: file is truncated")
)

// Store loads and saves settings and scores.
type Store interface {
	Load() (Settings, *ScoreRecord, error)
	Save(Settings, *ScoreRecord) error
}

// document is the on-disk layout. End is written last; a versioned file
// without it was cut short.
type document struct {
	Version  int          `yaml:"version"`
	Settings Settings     `yaml:"settings"`
	Scores   []ScoreEntry `yaml:"scores"`
	End      bool         `yaml:"end"`
}

// FileStore keeps everything in one YAML file. It is safe for concurrent
// use; saves are serialized.
type FileStore struct {
	path   string
	cap    int
	logger *log.Logger
	mu     sync.Mutex
}

// NewFileStore creates a store at path. A leading ~ is expanded.
// A nil logger uses the default logger.
func NewFileStore(path string, logger *log.Logger) (*FileStore, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("persist: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if path == "" {
		return nil, errors.New("persist: empty path")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &FileStore{path: path, cap: DefaultScoreCap, logger: logger}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// SetCap changes the size of the score table used by Load.
func (s *FileStore) SetCap(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.cap = n
	}
}

// Load reads the file. A missing file gives defaults and no error. An
// unreadable or malformed file gives defaults, an empty table and an error
// wrapping ErrRecovered; the damaged file is kept next to the original with
// a .corrupt suffix. Missing keys take their default values.
func (s *FileStore) Load() (Settings, *ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), NewScoreRecord(s.cap), nil
	}
	if err != nil {
		s.logger.Warn("cannot read settings file, using defaults", "path", s.path, "err", err)
		return DefaultSettings(), NewScoreRecord(s.cap), fmt.Errorf("%w: %v", ErrRecovered, err)
	}

	doc, err := decode(data)
	if err != nil {
		backup := s.path + ".corrupt"
		if rerr := os.Rename(s.path, backup); rerr != nil {
			s.logger.Warn("cannot keep corrupt settings file", "path", s.path, "err", rerr)
			backup = ""
		}
		s.logger.Warn("settings file is corrupt, using defaults", "path", s.path, "backup", backup, "err", err)
		return DefaultSettings(), NewScoreRecord(s.cap), fmt.Errorf("%w: %s: %v", ErrRecovered, s.path, err)
	}

	if doc.Version > FileVersion {
		s.logger.Warn("settings file is newer than this build", "path", s.path, "version", doc.Version)
	}

	settings, err := doc.Settings.Normalize()
	if err != nil {
		s.logger.Warn("dropped invalid key bindings", "path", s.path, "err", err)
	}

	rec := &ScoreRecord{Cap: s.cap, Entries: doc.Scores}
	rec.normalize()
	return settings, rec, nil
}

// decode parses a document on top of the defaults so missing keys keep
// their default values. Hand-written files without a version and files
// older than endMarkerVersion need no end marker; an empty file is always
// a truncation.
func decode(data []byte) (document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return document{}, ErrTruncated
	}

	// Bindings in the file replace the defaults per action, so start
	// from an empty map and let Normalize fill in what is missing.
	doc := document{Settings: DefaultSettings()}
	doc.Settings.KeyBindings = nil
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return document{}, err
	}

	if doc.Version == 0 {
		doc.Version = FileVersion
		return doc, nil
	}
	if doc.Version >= endMarkerVersion && !doc.End {
		return document{}, ErrTruncated
	}
	return doc, nil
}

// Save writes settings and scores atomically: the data goes to a temporary
// file in the same directory, is synced, then renamed over the target.
func (s *FileStore) Save(settings Settings, rec *ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := document{Version: FileVersion, Settings: settings, End: true}
	if rec != nil {
		doc.Scores = rec.Entries
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("persist: cannot encode settings: %w", err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		s.logger.Error("cannot save settings", "path", s.path, "err", err)
		return err
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("persist: cannot create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("persist: cannot write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("persist: cannot sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: cannot close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("persist: cannot chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("persist: cannot replace %s: %w", path, err)
	}
	return nil
}
