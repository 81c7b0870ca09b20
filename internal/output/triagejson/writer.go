package triagejson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sentinelsoc/internal/logger"
	"sentinelsoc/pkg/models"
)

// Writer outputs triage records to a JSON lines file.
type Writer struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewWriter creates a JSONL writer for triage records.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	logger.Infof("Triage JSON writer initialized: %s", path)
	return &Writer{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// WriteRecords writes a batch of triage records.
func (w *Writer) WriteRecords(records []*models.TriageRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, record := range records {
		if err := w.encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to encode triage record: %w", err)
		}
	}
	return nil
}

// Close closes the output file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
