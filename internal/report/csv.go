package report

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/IvanShishkin/fdigest/pkg/models"
)

// legacyDigestColumn is the digest header written by the first fdigest releases
const legacyDigestColumn = "sha512_hash"

// WriteCSV writes a header row and one row per record, quoting as RFC 4180
// requires. Lines end with LF so that carriage returns inside quoted fields
// are written unchanged.
func WriteCSV(w io.Writer, records []models.DigestRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(models.RecordFields); err != nil {
		return err
	}
	for i := range records {
		if err := writer.Write(recordRow(&records[i])); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func recordRow(r *models.DigestRecord) []string {
	return []string{
		r.Path,
		r.Name,
		r.Dir,
		r.Extension,
		strconv.FormatInt(r.Size, 10),
		r.CreationTime,
		r.ModificationTime,
		r.Digest,
	}
}

// ReadCSV parses a CSV report back into records. Reports whose digest column
// is named sha512_hash and whose sizes are written as floats are accepted too.
//
// In reports with LF line ends every CR belongs to a field and is kept. In
// CRLF reports a CRLF inside a quoted field reads back as LF.
func ReadCSV(r io.Reader) ([]models.DigestRecord, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if !crlfTerminated(br) {
		src = &crlfKeeper{r: br}
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = len(models.RecordFields)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty report: missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	records := make([]models.DigestRecord, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		record, err := parseRow(row)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// crlfTerminated reports whether the header line ends with CRLF
func crlfTerminated(br *bufio.Reader) bool {
	head, _ := br.Peek(br.Size())
	i := bytes.IndexByte(head, '\n')
	return i > 0 && head[i-1] == '\r'
}

// crlfKeeper doubles the CR of every CRLF. encoding/csv folds a CRLF at the
// end of each physical line into LF, which turns CR CRLF back into CRLF.
type crlfKeeper struct {
	r       *bufio.Reader
	pending bool
}

func (k *crlfKeeper) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if k.pending {
			p[n] = '\r'
			n++
			k.pending = false
			continue
		}

		b, err := k.r.ReadByte()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		p[n] = b
		n++

		if b == '\r' {
			if next, err := k.r.Peek(1); err == nil && next[0] == '\n' {
				k.pending = true
			}
		}
	}
	return n, nil
}

func checkHeader(header []string) error {
	for i, name := range models.RecordFields {
		if header[i] == name {
			continue
		}
		if i == len(models.RecordFields)-1 && header[i] == legacyDigestColumn {
			continue
		}
		return fmt.Errorf("unexpected column %d: got %q, want %q", i+1, header[i], name)
	}
	return nil
}

func parseRow(row []string) (models.DigestRecord, error) {
	size, err := parseSize(row[4])
	if err != nil {
		return models.DigestRecord{}, err
	}

	return models.DigestRecord{
		Path:             row[0],
		Name:             row[1],
		Dir:              row[2],
		Extension:        row[3],
		Size:             size,
		CreationTime:     row[5],
		ModificationTime: row[6],
		Digest:           row[7],
	}, nil
}

func parseSize(s string) (int64, error) {
	if size, err := strconv.ParseInt(s, 10, 64); err == nil {
		return size, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid file_size %q", s)
	}
	return int64(f), nil
}
