// memfs.go - In-memory filesystem for pipeline tests
package testutil

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing/fstest"
	"time"

	"github.com/IvanShishkin/fdigest/pkg/models"
)

// ErrInjected is returned by MemFS operations configured to fail
var ErrInjected = errors.New("injected failure")

// MemFS implements filesystem.FileSystem over an fstest.MapFS. Paths are
// slash-separated and relative, e.g. "tree/docs/a.txt".
type MemFS struct {
	Files fstest.MapFS

	FailList map[string]error // ReadDir failures by directory
	FailStat map[string]error // Stat failures by file
	FailOpen map[string]error // Open failures by file
	FailRead map[string]error // Read failures by file, after the first block

	Birth map[string]time.Time // birth times by file

	Opened int // handles handed out by Open
	Closed int // handles released
}

// NewMemFS creates an in-memory filesystem holding files
func NewMemFS(files map[string]string) *MemFS {
	m := &MemFS{
		Files:    fstest.MapFS{},
		FailList: make(map[string]error),
		FailStat: make(map[string]error),
		FailOpen: make(map[string]error),
		FailRead: make(map[string]error),
		Birth:    make(map[string]time.Time),
	}
	for name, content := range files {
		m.Add(name, content)
	}
	return m
}

// Add stores a regular file with a fixed modification time
func (m *MemFS) Add(name, content string) {
	m.Files[name] = &fstest.MapFile{
		Data:    []byte(content),
		Mode:    0644,
		ModTime: time.Date(2024, 1, 15, 14, 30, 22, 500, time.UTC),
	}
}

// ReadDir lists a directory
func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	name = filepath.ToSlash(name)
	if err, ok := m.FailList[name]; ok {
		return nil, err
	}
	return fs.ReadDir(m.Files, name)
}

// Stat returns file metadata; the change time mirrors the modification time
func (m *MemFS) Stat(name string) (*models.FileStat, error) {
	name = filepath.ToSlash(name)
	if err, ok := m.FailStat[name]; ok {
		return nil, err
	}
	info, err := fs.Stat(m.Files, name)
	if err != nil {
		return nil, err
	}
	return &models.FileStat{
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		ChangeTime: info.ModTime(),
		BirthTime:  m.Birth[name],
		Mode:       info.Mode(),
	}, nil
}

// Open opens a file and counts the handle
func (m *MemFS) Open(name string) (io.ReadCloser, error) {
	name = filepath.ToSlash(name)
	if err, ok := m.FailOpen[name]; ok {
		return nil, err
	}
	f, err := m.Files.Open(name)
	if err != nil {
		return nil, err
	}
	m.Opened++
	return &memFile{File: f, fs: m, failRead: m.FailRead[name]}, nil
}

type memFile struct {
	fs.File
	fs       *MemFS
	failRead error
	reads    int
}

func (f *memFile) Read(p []byte) (int, error) {
	f.reads++
	if f.failRead != nil && f.reads > 1 {
		return 0, f.failRead
	}
	return f.File.Read(p)
}

func (f *memFile) Close() error {
	f.fs.Closed++
	return f.File.Close()
}
