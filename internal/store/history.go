package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/Pusher91/urlverdict/internal/domain"
)

const historyFile = "history.json"

// History is the persisted, newest-first scan timeline. All mutation goes
// through Append/ReplaceAll under one mutex; subscribers learn about
// every change through the emitter.
type History struct {
	mu      sync.Mutex
	path    string
	emitter domain.Emitter
	records []domain.VerdictRecord
}

func OpenHistory(dataDir string, emitter domain.Emitter) (*History, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	h := &History{
		path:    filepath.Join(dataDir, historyFile),
		emitter: emitter,
	}

	b, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &h.records); err != nil {
		return nil, err
	}
	return h, nil
}

// Append prepends: history reads newest-first.
func (h *History) Append(rec domain.VerdictRecord) error {
	h.mu.Lock()
	h.records = append([]domain.VerdictRecord{rec}, h.records...)
	err := writeJSONAtomic(h.path, h.records)
	h.mu.Unlock()

	h.emit("history_appended", rec)
	return err
}

// ReplaceAll swaps the whole log for a fresh snapshot, as link sweeps do.
func (h *History) ReplaceAll(recs []domain.VerdictRecord) error {
	cp := make([]domain.VerdictRecord, len(recs))
	copy(cp, recs)

	h.mu.Lock()
	h.records = cp
	err := writeJSONAtomic(h.path, h.records)
	h.mu.Unlock()

	h.emit("history_replaced", map[string]any{"count": len(cp)})
	return err
}

// ReadAll returns a copied snapshot; callers can hold it without racing
// later mutations.
func (h *History) ReadAll() []domain.VerdictRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.VerdictRecord, len(h.records))
	copy(out, h.records)
	return out
}

func (h *History) emit(event string, payload any) {
	if h.emitter != nil {
		h.emitter.Emit(event, payload)
	}
}
