package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"eino_grocery_bot/pkg"
	"eino_grocery_bot/src/logger"
)

// JSONUnansweredLog records questions nothing could answer, for offline
// review, as one JSON array in a file.
// Records are append-only and never deduplicated.
type JSONUnansweredLog struct {
	mu   sync.Mutex
	path string
}

// NewJSONUnansweredLog opens the log at path, creating an empty one if needed
func NewJSONUnansweredLog(path string) (*JSONUnansweredLog, error) {
	l := &JSONUnansweredLog{path: path}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := l.write([]pkg.UnansweredRecord{}); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// List returns every record in append order
func (l *JSONUnansweredLog) List() ([]pkg.UnansweredRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// Append adds one record. A corrupt file is treated as empty and overwritten.
func (l *JSONUnansweredLog) Append(record pkg.UnansweredRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		logger.Warn().Err(err).Str("path", l.path).Msg("Unanswered log unreadable, starting fresh")
		records = []pkg.UnansweredRecord{}
	}

	records = append(records, record)
	if err := l.write(records); err != nil {
		return err
	}

	logger.Debug().
		Str("path", l.path).
		Str("question", record.Question).
		Int("total", len(records)).
		Msg("💾 Saved unanswered question")
	return nil
}

func (l *JSONUnansweredLog) load() ([]pkg.UnansweredRecord, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []pkg.UnansweredRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read unanswered log: %w", err)
	}

	records := []pkg.UnansweredRecord{}
	if len(data) == 0 {
		return records, nil
	}
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse unanswered log: %w", err)
	}
	return records, nil
}

func (l *JSONUnansweredLog) write(records []pkg.UnansweredRecord) error {
	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create unanswered log directory: %w", err)
		}
	}

	data, err := sonic.ConfigStd.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal unanswered log: %w", err)
	}

	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write unanswered log: %w", err)
	}
	return nil
}
