package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/fdigest/pkg/models"
)

// ReadReport loads a report file, choosing the decoder by its extension.
// CSV reports carry no envelope, so only Records is set for them.
func ReadReport(path string) (*models.Report, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	if ext == "duckdb" {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		return readDuckDB(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	r := bufio.NewReader(file)

	var report *models.Report
	switch ext {
	case "csv":
		records, err := ReadCSV(r)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return &models.Report{Records: records}, nil
	case "json":
		report, err = decodeJSON(r)
	case "yaml", "yml":
		report, err = decodeYAML(r)
	case "msgpack":
		report, err = decodeMsgpack(r)
	default:
		return nil, fmt.Errorf("unsupported report file: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if report.Records == nil {
		report.Records = []models.DigestRecord{}
	}
	return report, nil
}
