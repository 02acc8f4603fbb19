package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"wedding-planner/internal/models"
)

// SubmissionLog appends completed questionnaires to a JSON file
type SubmissionLog struct {
	mu   sync.Mutex
	file string
}

func NewSubmissionLog(filePath string) *SubmissionLog {
	return &SubmissionLog{file: filePath}
}

// Submit stores a submission after the ones already on file.
func (l *SubmissionLog) Submit(_ context.Context, sub *models.Submission) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	subs, err := l.load()
	if err != nil {
		return err
	}
	subs = append(subs, *sub)

	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}
	return writeFile(l.file, data)
}

// All returns every stored submission
func (l *SubmissionLog) All() ([]models.Submission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *SubmissionLog) load() ([]models.Submission, error) {
	data, err := os.ReadFile(l.file)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var subs []models.Submission
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submissions: %w", err)
	}
	return subs, nil
}
