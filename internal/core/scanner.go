package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/fdigest/internal/config"
	"github.com/IvanShishkin/fdigest/internal/filesystem"
	"github.com/IvanShishkin/fdigest/internal/report"
	"github.com/IvanShishkin/fdigest/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Progress phases
const (
	PhaseEnumerating = "enumerating"
	PhaseHashing     = "hashing"
	PhaseWriting     = "writing"
	PhaseVerifying   = "verifying"
)

// ProgressCallback is called to report run progress
type ProgressCallback func(phase string, current, total int, message string)

// Scanner runs the digest pipeline: enumerate, hash, write
type Scanner struct {
	config           *config.Config
	logger           *zap.Logger
	walker           *filesystem.Walker
	reader           *filesystem.Reader
	reporter         *report.Generator
	progressCallback ProgressCallback
	now              func() time.Time
}

// NewScanner creates a new scanner reading through fsys
func NewScanner(cfg *config.Config, fsys filesystem.FileSystem, logger *zap.Logger) (*Scanner, error) {
	reporter, err := report.NewGenerator(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report generator: %w", err)
	}

	return &Scanner{
		config:   cfg,
		logger:   logger,
		walker:   filesystem.NewWalker(cfg, fsys, logger),
		reader:   filesystem.NewReader(cfg, fsys),
		reporter: reporter,
		now:      time.Now,
	}, nil
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// reportProgress calls the progress callback if set
func (s *Scanner) reportProgress(phase string, current, total int, message string) {
	if s.progressCallback != nil {
		s.progressCallback(phase, current, total, message)
	}
}

// Run digests every file under root and writes the report. Files that cannot
// be read are skipped or abort the run depending on the error policy. A
// cancelled run writes no report.
func (s *Scanner) Run(ctx context.Context, root string) (*models.RunResults, error) {
	results := &models.RunResults{
		RunID:     uuid.NewString(),
		StartTime: s.now(),
		Root:      root,
	}

	s.logger.Info("Starting digest",
		zap.String("run_id", results.RunID),
		zap.String("path", root),
		zap.Int("block_size", s.reader.BlockSize()))

	// Enumerate
	s.reportProgress(PhaseEnumerating, 0, 0, "Listing files...")
	locations, warnings, err := s.walker.Enumerate(ctx, root)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		results.AddWarning(w)
	}
	results.TotalFiles = len(locations)
	s.reportProgress(PhaseEnumerating, len(locations), len(locations), fmt.Sprintf("Found %d files to digest", len(locations)))

	// Hash
	records, err := s.buildRecords(ctx, locations, results)
	if err != nil {
		return nil, err
	}

	// Write
	s.reportProgress(PhaseWriting, 0, 1, "Writing report...")
	rep := &models.Report{
		RunID:       results.RunID,
		Root:        root,
		GeneratedAt: s.now(),
		Records:     records,
	}
	results.ReportPath, err = s.reporter.Generate(rep)
	if err != nil {
		return nil, err
	}
	s.reportProgress(PhaseWriting, 1, 1, results.ReportPath)

	results.DigestedFiles = len(records)
	results.EndTime = s.now()
	results.Duration = results.EndTime.Sub(results.StartTime)

	s.logger.Info("Digest completed",
		zap.String("run_id", results.RunID),
		zap.Int("files", results.DigestedFiles),
		zap.Int("skipped", results.SkippedFiles),
		zap.Int64("bytes", results.TotalBytes),
		zap.String("report", results.ReportPath),
		zap.Duration("duration", results.Duration))

	return results, nil
}

// buildRecords hashes the enumerated files one after another, in order
func (s *Scanner) buildRecords(ctx context.Context, locations []models.FileLocation, results *models.RunResults) ([]models.DigestRecord, error) {
	policy := s.config.GetErrorPolicy()
	records := make([]models.DigestRecord, 0, len(locations))

	for i, loc := range locations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := s.reader.ReadRecord(ctx, loc)
		if err != nil {
			var accessErr *models.FileAccessError
			if !errors.As(err, &accessErr) || policy == config.PolicyAbort {
				return nil, err
			}

			s.logger.Warn("Skipping file",
				zap.String("path", accessErr.Path),
				zap.String("op", accessErr.Op),
				zap.Error(accessErr.Err))
			results.AddWarning(models.NewWarning(err))
			s.reportProgress(PhaseHashing, i+1, len(locations), loc.Name)
			continue
		}

		records = append(records, *record)
		results.TotalBytes += record.Size
		s.reportProgress(PhaseHashing, i+1, len(locations), loc.Name)
	}

	return records, nil
}

// Verify re-hashes the files listed in records and compares each with its
// recorded digest and size. Unreadable files are reported as missing.
func (s *Scanner) Verify(ctx context.Context, records []models.DigestRecord) (*models.VerifyResults, error) {
	s.logger.Info("Starting verification", zap.Int("files", len(records)))

	results := &models.VerifyResults{}
	for i, expected := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loc := models.FileLocation{Dir: expected.Dir, Name: expected.Name}
		if loc.Name == "" {
			loc.Dir, loc.Name = filepath.Split(expected.Path)
		}

		entry := models.VerifyEntry{Expected: expected}
		actual, err := s.reader.ReadRecord(ctx, loc)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			var accessErr *models.FileAccessError
			if !errors.As(err, &accessErr) {
				return nil, err
			}
			entry.Status = models.VerifyMissing
			entry.Err = err
			s.logger.Warn("File not readable", zap.String("path", expected.Path), zap.Error(err))
		case actual.Digest != expected.Digest || actual.Size != expected.Size:
			entry.Actual = actual
			entry.Status = models.VerifyMismatch
			s.logger.Warn("Digest mismatch", zap.String("path", expected.Path))
		default:
			entry.Actual = actual
			entry.Status = models.VerifyOK
		}

		results.Add(entry)
		s.reportProgress(PhaseVerifying, i+1, len(records), expected.Name)
	}

	s.logger.Info("Verification completed",
		zap.Int("ok", results.OK),
		zap.Int("mismatch", results.Mismatched),
		zap.Int("missing", results.Missing))

	return results, nil
}
