// Package batch scores every résumé against every job description.
package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/document"
	"github.com/spigell/ats-scorer/internal/extract"
	"github.com/spigell/ats-scorer/internal/logger"
	"github.com/spigell/ats-scorer/internal/similarity"
)

// Reader reads a document from disk.
type Reader interface {
	Read(path string) (*document.Document, error)
}

// Row is the outcome of one résumé and job description pair. Exactly one of
// Result and Err is set.
type Row struct {
	Resume         string
	JobDescription string
	Result         *similarity.Result
	Err            error
}

// ResumeName returns the résumé file name.
func (r Row) ResumeName() string { return filepath.Base(r.Resume) }

// JobName returns the job description file name.
func (r Row) JobName() string { return filepath.Base(r.JobDescription) }

func (r Row) Failed() bool { return r.Err != nil }

// Similarity returns the percentage, or 0 for a failed pair.
func (r Row) Similarity() float64 {
	if r.Result == nil {
		return 0
	}
	return r.Result.Percentage
}

func (r Row) MissingCount() int {
	if r.Result == nil {
		return 0
	}
	return len(r.Result.Missing)
}

func (r Row) CommonCount() int {
	if r.Result == nil {
		return 0
	}
	return len(r.Result.Common)
}

// Rows are summary rows in processing order.
type Rows []Row

// Failed counts pairs that could not be scored.
func (rs Rows) Failed() int {
	var n int
	for _, r := range rs {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Err combines the errors of every failed pair, or returns nil.
func (rs Rows) Err() error {
	var err error
	for _, r := range rs {
		if r.Failed() {
			err = multierr.Append(err, r.Err)
		}
	}
	return err
}

// Observer is notified of each row as soon as its pair is processed.
type Observer func(Row)

type Option func(*Driver)

// WithObserver registers a callback invoked after every pair.
func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observer = o }
}

// Driver runs the résumé × job description comparison loop.
type Driver struct {
	reader    Reader
	extractor extract.Extractor
	logger    *zap.Logger
	observer  Observer
}

func New(reader Reader, extractor extract.Extractor, log *zap.Logger, opts ...Option) *Driver {
	d := &Driver{
		reader:    reader,
		extractor: extractor,
		logger:    logger.WithFields(log),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run compares every résumé with every job description, résumés in the outer
// loop. A failing pair yields an error row and the loop continues. The
// context is checked between pairs; on cancellation the rows collected so far
// are returned together with the context error.
func (d *Driver) Run(ctx context.Context, resumes, jobs []string) (Rows, error) {
	rows := make(Rows, 0, len(resumes)*len(jobs))

	for _, resume := range resumes {
		for _, job := range jobs {
			if err := ctx.Err(); err != nil {
				return rows, err
			}

			row := d.pair(ctx, resume, job)
			rows = append(rows, row)

			if d.observer != nil {
				d.observer(row)
			}
		}
	}

	d.logger.Info("batch finished",
		zap.Int("pairs", len(rows)),
		zap.Int("failed", rows.Failed()),
	)

	return rows, nil
}

func (d *Driver) pair(ctx context.Context, resume, job string) Row {
	row := Row{Resume: resume, JobDescription: job}
	log := d.logger.With(logger.PairFields(resume, job)...)

	resumeTerms, err := d.terms(ctx, resume)
	if err != nil {
		row.Err = err
		log.Warn("skipping pair", zap.Error(err))
		return row
	}

	jobTerms, err := d.terms(ctx, job)
	if err != nil {
		row.Err = err
		log.Warn("skipping pair", zap.Error(err))
		return row
	}

	result := similarity.Compare(resumeTerms, jobTerms)
	row.Result = &result

	log.Debug("pair compared",
		zap.Int("resume_terms", len(resumeTerms)),
		zap.Int("job_terms", len(jobTerms)),
		zap.Float64("similarity", result.Percentage),
		zap.Stringer("tier", result.Tier()),
	)

	return row
}

func (d *Driver) terms(ctx context.Context, path string) (terms []string, err error) {
	// A panicking extractor fails the pair, not the batch.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extracting terms from %q: panic: %v", path, r)
		}
	}()

	doc, err := d.reader.Read(path)
	if err != nil {
		return nil, err
	}

	terms, err = d.extractor.Extract(ctx, doc.Text)
	if err != nil {
		return nil, fmt.Errorf("extracting terms from %q: %w", path, err)
	}

	return terms, nil
}
