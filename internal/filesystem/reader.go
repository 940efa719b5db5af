package filesystem

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"github.com/IvanShishkin/fdigest/internal/config"
	"github.com/IvanShishkin/fdigest/pkg/models"
)

// DefaultBlockSize is the number of bytes fed to the hash per read
const DefaultBlockSize = 64 * 1024

var errIsDirectory = errors.New("is a directory")

// Reader builds digest records from files
type Reader struct {
	fs        FileSystem
	blockSize int
	creation  config.CreationSource
}

// NewReader creates a digest builder reading through fsys
func NewReader(cfg *config.Config, fsys FileSystem) *Reader {
	return &Reader{
		fs:        fsys,
		blockSize: cfg.GetBlockSize(),
		creation:  cfg.GetCreationSource(),
	}
}

// BlockSize returns the read block size in bytes
func (r *Reader) BlockSize() int {
	return r.blockSize
}

// ReadRecord stats and hashes one file. Failures are returned as
// *models.FileAccessError; a cancelled context is returned unwrapped.
func (r *Reader) ReadRecord(ctx context.Context, loc models.FileLocation) (*models.DigestRecord, error) {
	path := loc.Path()

	stat, err := r.fs.Stat(path)
	if err != nil {
		return nil, &models.FileAccessError{Path: path, Op: "stat", Err: err}
	}
	if stat.Mode.IsDir() {
		return nil, &models.FileAccessError{Path: path, Op: "stat", Err: errIsDirectory}
	}

	digest, err := r.hashFile(ctx, path)
	if err != nil {
		return nil, err
	}

	created := stat.ChangeTime
	if r.creation == config.CreationBirth && !stat.BirthTime.IsZero() {
		created = stat.BirthTime
	}

	return &models.DigestRecord{
		Path:             path,
		Name:             loc.Name,
		Dir:              loc.Dir,
		Extension:        Extension(loc.Name),
		Size:             stat.Size,
		CreationTime:     models.FormatTime(created),
		ModificationTime: models.FormatTime(stat.ModTime),
		Digest:           digest,
	}, nil
}

// hashFile holds the file open only while its content is hashed
func (r *Reader) hashFile(ctx context.Context, path string) (string, error) {
	file, err := r.fs.Open(path)
	if err != nil {
		return "", &models.FileAccessError{Path: path, Op: "open", Err: err}
	}
	defer file.Close()

	digest, err := HashStream(ctx, file, r.blockSize)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &models.FileAccessError{Path: path, Op: "read", Err: err}
	}
	return digest, nil
}

// HashStream computes the lowercase hex SHA-512 of src, reading blockSize
// bytes at a time and checking ctx between reads
func HashStream(ctx context.Context, src io.Reader, blockSize int) (string, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	hasher := sha512.New()
	buffer := make([]byte, blockSize)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := src.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Extension returns the suffix of a file name including the dot. Names
// without a dot, dot-files such as ".bashrc" and names ending in a dot have
// no extension.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
