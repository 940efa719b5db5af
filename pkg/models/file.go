package models

import (
	"io/fs"
	"path/filepath"
	"time"
)

// TimeLayout is the text form of report timestamps (UTC, second precision)
const TimeLayout = "2006-01-02 15:04:05"

// FileLocation is a file found by the enumerator: a directory and a name within it
type FileLocation struct {
	Dir  string // Containing directory
	Name string // Base name
}

// Path joins the directory and name with the platform separator
func (l FileLocation) Path() string {
	return filepath.Join(l.Dir, l.Name)
}

// DigestRecord is one row of a digest report
type DigestRecord struct {
	Path             string `json:"file_path" yaml:"file_path" msgpack:"file_path"`
	Name             string `json:"file_name" yaml:"file_name" msgpack:"file_name"`
	Dir              string `json:"file_dir" yaml:"file_dir" msgpack:"file_dir"`
	Extension        string `json:"file_extension" yaml:"file_extension" msgpack:"file_extension"`
	Size             int64  `json:"file_size" yaml:"file_size" msgpack:"file_size"`
	CreationTime     string `json:"file_creation_time" yaml:"file_creation_time" msgpack:"file_creation_time"`
	ModificationTime string `json:"last_modification_time" yaml:"last_modification_time" msgpack:"last_modification_time"`
	Digest           string `json:"digest_hex" yaml:"digest_hex" msgpack:"digest_hex"`
}

// RecordFields lists the report columns in their fixed order
var RecordFields = []string{
	"file_path",
	"file_name",
	"file_dir",
	"file_extension",
	"file_size",
	"file_creation_time",
	"last_modification_time",
	"digest_hex",
}

// FileStat holds the metadata the digest builder reads besides content
type FileStat struct {
	Size       int64
	ModTime    time.Time
	ChangeTime time.Time // inode change time on Unix, creation time on Windows
	BirthTime  time.Time // zero when the platform or filesystem does not report it
	Mode       fs.FileMode
}

// FormatTime renders t in UTC with second precision
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
