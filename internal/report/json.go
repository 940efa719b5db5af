package report

import (
	"encoding/json"
	"io"

	"github.com/IvanShishkin/fdigest/pkg/models"
)

// encodeJSON writes the report envelope as indented JSON
func encodeJSON(w io.Writer, report *models.Report) error {
	data, err := json.MarshalIndent(envelope(report), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	_, err = w.Write(data)
	return err
}

func decodeJSON(r io.Reader) (*models.Report, error) {
	var report models.Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

// envelope guarantees an empty report serializes its records as a list
func envelope(report *models.Report) *models.Report {
	if report.Records != nil {
		return report
	}
	cp := *report
	cp.Records = []models.DigestRecord{}
	return &cp
}
