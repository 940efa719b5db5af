package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/IvanShishkin/fdigest/pkg/models"
)

const (
	Question        = "Enter the path for which a digest should be created (e.g. \"/mnt/backup\", \"C:\\Users\"): "
	MsgNotExist     = "Path does not exist. Please try again."
	MsgNotDirectory = "Path is not directory. Please try again."
)

// StatFunc reports whether a path exists and is a directory
type StatFunc func(name string) (os.FileInfo, error)

// state of the root path dialogue
type state int

const (
	stateAwaiting state = iota
	stateAccepted
)

// Prompter asks on a console for a root directory until one is valid
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	stat StatFunc
}

// NewPrompter creates a prompter reading lines from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:   bufio.NewReader(in),
		out:  out,
		stat: os.Stat,
	}
}

// WithStat replaces the filesystem check, for tests
func (p *Prompter) WithStat(stat StatFunc) *Prompter {
	p.stat = stat
	return p
}

// Ask prompts until the answer names an existing directory. Each rejection
// prints the reason and asks again; running out of input is an error.
func (p *Prompter) Ask() (string, error) {
	current := stateAwaiting
	var answer string

	for current == stateAwaiting {
		fmt.Fprint(p.out, Question)

		line, err := p.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("no path entered: %w", io.ErrUnexpectedEOF)
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		answer = strings.TrimRight(line, "\r\n")

		switch err := ValidateRoot(answer, p.stat); {
		case err == nil:
			current = stateAccepted
		case errors.Is(err, models.ErrNotDirectory):
			fmt.Fprintln(p.out, MsgNotDirectory)
		default:
			fmt.Fprintln(p.out, MsgNotExist)
		}
	}

	return answer, nil
}

// ValidateRoot checks that path exists and is a directory
func ValidateRoot(path string, stat StatFunc) error {
	if stat == nil {
		stat = os.Stat
	}
	if path == "" {
		return &models.InvalidRootPathError{Path: path, Err: models.ErrPathNotExist}
	}

	info, err := stat(path)
	if err != nil {
		return &models.InvalidRootPathError{Path: path, Err: models.ErrPathNotExist}
	}
	if !info.IsDir() {
		return &models.InvalidRootPathError{Path: path, Err: models.ErrNotDirectory}
	}
	return nil
}
