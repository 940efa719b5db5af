package report

import (
	"io"

	"github.com/IvanShishkin/fdigest/pkg/models"
	"gopkg.in/yaml.v3"
)

func encodeYAML(w io.Writer, report *models.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(envelope(report)); err != nil {
		return err
	}
	return enc.Close()
}

func decodeYAML(r io.Reader) (*models.Report, error) {
	var report models.Report
	if err := yaml.NewDecoder(r).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}
