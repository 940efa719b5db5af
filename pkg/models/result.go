package models

import "time"

// Report is the ordered set of records produced by one run
type Report struct {
	RunID       string         `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	Root        string         `json:"root" yaml:"root" msgpack:"root"`
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at" msgpack:"generated_at"`
	Records     []DigestRecord `json:"records" yaml:"records" msgpack:"records"`
}

// RunResults summarizes a digest run
type RunResults struct {
	RunID     string        `json:"run_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Root      string        `json:"root"`

	TotalFiles    int   `json:"total_files"`    // files reported by the enumerator
	DigestedFiles int   `json:"digested_files"` // records written to the report
	SkippedFiles  int   `json:"skipped_files"`  // files dropped after a FileAccessError
	TotalBytes    int64 `json:"total_bytes"`

	Warnings   []Warning `json:"warnings,omitempty"`
	ReportPath string    `json:"report_path,omitempty"`
}

// AddWarning records a non-fatal problem
func (r *RunResults) AddWarning(w Warning) {
	r.Warnings = append(r.Warnings, w)
	if w.Kind == KindFileAccess {
		r.SkippedFiles++
	}
}

// Warning is a directory or file the run could not include
type Warning struct {
	Kind    ErrorKind `json:"kind"`
	Path    string    `json:"path"`
	Message string    `json:"message"`
}

// VerifyStatus is the outcome of re-hashing one reported file
type VerifyStatus string

const (
	VerifyOK       VerifyStatus = "ok"
	VerifyMismatch VerifyStatus = "mismatch"
	VerifyMissing  VerifyStatus = "missing"
)

// VerifyEntry is the verification result for one record
type VerifyEntry struct {
	Expected DigestRecord
	Actual   *DigestRecord // nil when the file could not be read
	Status   VerifyStatus
	Err      error
}

// VerifyResults collects the verification of a whole report
type VerifyResults struct {
	Entries    []VerifyEntry
	OK         int
	Mismatched int
	Missing    int
}

// Add appends an entry and updates the counters
func (v *VerifyResults) Add(e VerifyEntry) {
	v.Entries = append(v.Entries, e)
	switch e.Status {
	case VerifyOK:
		v.OK++
	case VerifyMismatch:
		v.Mismatched++
	case VerifyMissing:
		v.Missing++
	}
}

// Clean reports whether every file matched
func (v *VerifyResults) Clean() bool {
	return v.Mismatched == 0 && v.Missing == 0
}
