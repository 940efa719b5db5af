package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/fdigest/internal/config"
	"github.com/IvanShishkin/fdigest/pkg/models"
	"go.uber.org/zap"
)

// TimestampLayout is the compact generation time embedded in report names
const TimestampLayout = "20060102-150405"

// Generator writes digest reports in the configured format
type Generator struct {
	config *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	if _, err := Extension(cfg.ReportFormat); err != nil {
		return nil, err
	}

	return &Generator{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Extension returns the file extension used for a report format
func Extension(format string) (string, error) {
	switch format {
	case "", "csv":
		return "csv", nil
	case "json":
		return "json", nil
	case "yaml":
		return "yaml", nil
	case "msgpack":
		return "msgpack", nil
	case "duckdb":
		return "duckdb", nil
	case "md", "markdown":
		return "md", nil
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}
}

// FileName builds "<prefix>--<YYYYMMDD>-<HHMMSS>.<ext>"
func FileName(prefix string, at time.Time, ext string) string {
	return fmt.Sprintf("%s--%s.%s", prefix, at.Format(TimestampLayout), ext)
}

// Generate writes the report into the output directory and returns its absolute path
func (g *Generator) Generate(report *models.Report) (string, error) {
	format := g.config.ReportFormat
	if format == "" {
		format = "csv"
	}
	ext, err := Extension(format)
	if err != nil {
		return "", err
	}

	at := report.GeneratedAt
	if at.IsZero() {
		at = g.now()
	}

	dir := g.config.OutputDir
	if dir == "" {
		dir = "."
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &models.WriteError{Path: dir, Err: err}
	}
	outputFile := filepath.Join(dir, FileName(g.config.ReportPrefix, at, ext))

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile),
		zap.Int("records", len(report.Records)))

	switch format {
	case "duckdb":
		err = commit(outputFile, func(tmp string) error {
			return writeDuckDB(tmp, report)
		})
	default:
		encode := encoderFor(format)
		err = commit(outputFile, func(tmp string) error {
			return writeStream(tmp, func(w io.Writer) error {
				return encode(w, report)
			})
		})
	}
	if err != nil {
		return "", err
	}

	// Get absolute path
	absPath, err := filepath.Abs(outputFile)
	if err != nil {
		return outputFile, nil
	}
	return absPath, nil
}

// encoderFor returns the stream encoder of a format
func encoderFor(format string) func(io.Writer, *models.Report) error {
	switch format {
	case "json":
		return encodeJSON
	case "yaml":
		return encodeYAML
	case "msgpack":
		return encodeMsgpack
	case "md", "markdown":
		return encodeMarkdown
	default:
		return func(w io.Writer, r *models.Report) error {
			return WriteCSV(w, r.Records)
		}
	}
}

// commit writes through a hidden temporary file next to path and renames it
// into place, so path never holds a partial report
func commit(path string, write func(tmp string) error) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	_ = os.Remove(tmp)

	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return &models.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &models.WriteError{Path: path, Err: err}
	}
	return nil
}

// writeStream creates path and fills it through a buffered writer
func writeStream(path string, encode func(w io.Writer) error) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(file)
	if err := encode(bw); err != nil {
		file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
