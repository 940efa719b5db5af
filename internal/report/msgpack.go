package report

import (
	"io"

	"github.com/IvanShishkin/fdigest/pkg/models"
	"github.com/vmihailenco/msgpack/v5"
)

// encodeMsgpack writes the report envelope as a single MessagePack map
func encodeMsgpack(w io.Writer, report *models.Report) error {
	return msgpack.NewEncoder(w).Encode(envelope(report))
}

func decodeMsgpack(r io.Reader) (*models.Report, error) {
	var report models.Report
	if err := msgpack.NewDecoder(r).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}
