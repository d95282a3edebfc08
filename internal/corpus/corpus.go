// Package corpus discovers résumé and job description files in directories.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

const (
	// HiddenPrefix marks dot files.
	HiddenPrefix = "."
	// BackupPrefix marks office lock and backup files.
	BackupPrefix = "~"
	// PinnedPrefix marks job descriptions that narrow the batch.
	PinnedPrefix = "_"
)

var (
	// ResumeExtensions are the word-processor formats discovered as résumés.
	ResumeExtensions = []string{".docx", ".doc", ".pdf"}
	// DefaultJobExtensions are the plain-text formats discovered as job descriptions.
	DefaultJobExtensions = []string{".txt"}
)

// Enumerator lists candidate documents in directories.
type Enumerator struct {
	logger        *zap.Logger
	jobExtensions []string
}

// New creates an Enumerator. Empty jobExtensions fall back to DefaultJobExtensions.
func New(logger *zap.Logger, jobExtensions []string) *Enumerator {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(jobExtensions) == 0 {
		jobExtensions = DefaultJobExtensions
	}

	return &Enumerator{
		logger:        logger,
		jobExtensions: jobExtensions,
	}
}

// Resumes returns word-processor documents in dir, skipping hidden and backup files.
func (e *Enumerator) Resumes(dir string) ([]string, error) {
	return e.list(dir, "resumes", []Filter{
		NewExtensions(ResumeExtensions),
		NewHidden(),
		NewBackup(),
	})
}

// JobDescriptions returns plain-text documents in dir. When any of them is
// pinned with a leading underscore only the pinned ones are returned.
func (e *Enumerator) JobDescriptions(dir string) ([]string, error) {
	return e.list(dir, "job_descriptions", []Filter{
		NewExtensions(e.jobExtensions),
		NewHidden(),
		NewPinned(),
	})
}

func (e *Enumerator) list(dir, kind string, steps []Filter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s in %q: %w", kind, dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	names = Run(e.logger.With(zap.String("corpus", kind), zap.String("dir", dir)), steps, names)
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}

	e.logger.Info("discovered documents",
		zap.String("corpus", kind),
		zap.String("dir", dir),
		zap.Int("count", len(paths)),
	)

	return paths, nil
}
