package filesystem

import (
	"io"
	"io/fs"
	"os"

	"github.com/IvanShishkin/fdigest/internal/config"
	"github.com/IvanShishkin/fdigest/pkg/models"
)

// FileSystem is what the enumerator and digest builder need from the host
type FileSystem interface {
	// ReadDir lists the children of a directory sorted by name
	ReadDir(name string) ([]fs.DirEntry, error)

	// Stat returns size and timestamps, following symbolic links
	Stat(name string) (*models.FileStat, error)

	// Open opens a file for sequential binary read
	Open(name string) (io.ReadCloser, error)
}

// OS is the host filesystem. Birth times cost an extra statx call on Linux
// and are only read when BirthTime is set.
type OS struct {
	BirthTime bool
}

// NewOS returns the host filesystem reading what cfg's creation time source needs
func NewOS(cfg *config.Config) OS {
	return OS{BirthTime: cfg.GetCreationSource() == config.CreationBirth}
}

// ReadDir lists a directory on disk
func (OS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// Stat stats a path on disk
func (o OS) Stat(name string) (*models.FileStat, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}

	stat := &models.FileStat{
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		ChangeTime: getChangeTime(info),
		Mode:       info.Mode(),
	}
	if o.BirthTime {
		stat.BirthTime = getBirthTime(name, info)
	}
	return stat, nil
}

// Open opens a file on disk
func (OS) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}
