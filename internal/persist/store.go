package persist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/ctxdesk/schema"
	"pkt.systems/pslog"
)

// FileName is the snapshot file written inside the state directory.
const FileName = "session.json"

// Store persists session snapshots to disk.
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore constructs a persistent store at the given directory.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a persistent store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("state_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Load reads the stored snapshot. A missing file is not an error; ok is false.
func (s *Store) Load() (schema.PersistedState, bool, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("state load miss")
			}
			return schema.PersistedState{}, false, nil
		}
		if s.log != nil {
			s.log.Warn("state load failed", "err", err)
		}
		return schema.PersistedState{}, false, err
	}
	state, err := schema.UnmarshalPersistedState(data)
	if err != nil {
		if s.log != nil {
			s.log.Warn("state load failed", "err", err)
		}
		return schema.PersistedState{}, false, err
	}
	if s.log != nil {
		s.log.Debug("state load ok", "panes", len(state.Panes))
	}
	return state, true, nil
}

// Save writes a snapshot to disk.
func (s *Store) Save(state schema.PersistedState) error {
	data, err := schema.MarshalPersistedState(state)
	if err != nil {
		if s.log != nil {
			s.log.Warn("state save failed", "err", err)
		}
		return err
	}
	return s.SaveRaw(data)
}

// SaveRaw atomically replaces the snapshot file with data.
func (s *Store) SaveRaw(data []byte) error {
	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return s.saveFailed(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "session-*.json")
	if err != nil {
		return s.saveFailed(err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return s.saveFailed(err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return s.saveFailed(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return s.saveFailed(err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return s.saveFailed(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return s.saveFailed(err)
	}
	if s.log != nil {
		s.log.Trace("state save ok", "bytes", len(data))
	}
	return nil
}

// Remove deletes the stored snapshot. Removing a missing snapshot succeeds.
func (s *Store) Remove() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		if s.log != nil {
			s.log.Warn("state remove failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Info("state removed")
	}
	return nil
}

func (s *Store) saveFailed(err error) error {
	if s.log != nil {
		s.log.Warn("state save failed", "err", err)
	}
	return err
}
