// Package jsonfile loads JSON-array-backed sources: generic events and the
// analyst feedback log.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"

	"sentinelsoc/internal/logger"
	"sentinelsoc/pkg/models"
)

// LoadEvents reads a JSON array of generic events. A missing file is an empty
// source; a file that does not hold a JSON array is an error.
func LoadEvents(path string) ([]models.GenericEvent, error) {
	var events []models.GenericEvent
	if err := loadList(path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// LoadFeedback reads the full analyst feedback history.
func LoadFeedback(path string) ([]models.FeedbackEntry, error) {
	var entries []models.FeedbackEntry
	if err := loadList(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func loadList(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnf("JSON source not found, treating as empty: %s", path)
			return nil
		}
		return fmt.Errorf("read json source: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse json source %s: %w", path, err)
	}
	return nil
}
