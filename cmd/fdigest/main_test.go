package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IvanShishkin/fdigest/internal/prompt"
	"github.com/IvanShishkin/fdigest/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// run executes the command line with stdin and returns what was printed
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{
		in:     strings.NewReader(stdin),
		out:    &out,
		errOut: &errOut,
		logger: zap.NewNop(),
	}

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "data.bin"), []byte{0, 1, 2}, 0644))
	return root
}

// reportIn returns the single report written to dir
func reportIn(t *testing.T, dir string) string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	return filepath.Join(dir, entries[0].Name())
}

func TestRoot_DigestPathArgument(t *testing.T) {
	root := writeTree(t)
	outDir := t.TempDir()

	out, err := run(t, "", root, "-o", outDir, "--no-progress")
	require.NoError(t, err)

	assert.Contains(t, out, "DIGEST COMPLETE")
	path := reportIn(t, outDir)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "fdigest--"))
	assert.Equal(t, ".csv", filepath.Ext(path))
	assert.Contains(t, out, path)
}

func TestRoot_Formats(t *testing.T) {
	root := writeTree(t)

	for _, format := range []string{"json", "yaml", "msgpack", "md"} {
		t.Run(format, func(t *testing.T) {
			outDir := t.TempDir()
			_, err := run(t, "", root, "-o", outDir, "-f", format, "--no-progress")
			require.NoError(t, err)
			assert.Equal(t, "."+format, filepath.Ext(reportIn(t, outDir)))
		})
	}
}

func TestRoot_PromptsForPath(t *testing.T) {
	root := writeTree(t)
	outDir := t.TempDir()
	stdin := filepath.Join(root, "notes.txt") + "\n" + root + "\n"

	out, err := run(t, stdin, "-o", outDir, "--no-progress")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, prompt.Question))
	assert.Contains(t, out, prompt.MsgNotDirectory)
	reportIn(t, outDir)
}

func TestRoot_PromptEndOfInput(t *testing.T) {
	outDir := t.TempDir()

	_, err := run(t, "", "-o", outDir, "--no-progress")
	assert.Error(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRoot_InvalidPathArgument(t *testing.T) {
	root := writeTree(t)

	tests := []struct {
		name string
		path string
		want error
	}{
		{"Missing", filepath.Join(root, "absent"), models.ErrPathNotExist},
		{"File", filepath.Join(root, "notes.txt"), models.ErrNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.path, "-o", t.TempDir())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRoot_InvalidFlags(t *testing.T) {
	root := writeTree(t)

	tests := [][]string{
		{root, "--format", "xml"},
		{root, "--on-error", "retry"},
		{root, "--creation-time", "atime"},
	}

	for _, args := range tests {
		out, err := run(t, "", args...)
		assert.Error(t, err, "args %v", args)
		assert.Contains(t, out, "Invalid parameter")
	}
}

func TestRoot_ProgressOutput(t *testing.T) {
	root := writeTree(t)

	out, err := run(t, "", root, "-o", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "Hashing:")
	assert.Contains(t, out, "(2/2)")
}

func TestCompare(t *testing.T) {
	root := writeTree(t)
	firstDir, secondDir := t.TempDir(), t.TempDir()

	_, err := run(t, "", root, "-o", firstDir, "--no-progress")
	require.NoError(t, err)
	_, err = run(t, "", root, "-o", secondDir, "-f", "json", "--no-progress")
	require.NoError(t, err)
	first, second := reportIn(t, firstDir), reportIn(t, secondDir)

	out, err := run(t, "", "compare", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "Reports match")

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("changed"), 0644))
	thirdDir := t.TempDir()
	_, err = run(t, "", root, "-o", thirdDir, "--no-progress")
	require.NoError(t, err)

	out, err = run(t, "", "compare", first, reportIn(t, thirdDir))
	assert.ErrorIs(t, err, errDifferences)
	assert.Contains(t, out, "notes.txt")
}

func TestVerify(t *testing.T) {
	root := writeTree(t)
	outDir := t.TempDir()

	_, err := run(t, "", root, "-o", outDir, "--no-progress")
	require.NoError(t, err)
	path := reportIn(t, outDir)

	out, err := run(t, "", "verify", path, "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "All files match")

	require.NoError(t, os.Remove(filepath.Join(root, "sub", "data.bin")))

	out, err = run(t, "", "verify", path, "--no-progress")
	assert.ErrorIs(t, err, errDifferences)
	assert.Contains(t, out, "MISSING")
}

func TestExitCode(t *testing.T) {
	var errOut bytes.Buffer
	a := &app{errOut: &errOut}

	assert.Equal(t, exitOK, a.exitCode(nil))
	assert.Equal(t, exitDifferences, a.exitCode(errDifferences))
	assert.Empty(t, errOut.String())

	assert.Equal(t, exitError, a.exitCode(errors.New("boom")))
	assert.Contains(t, errOut.String(), "boom")
}

func TestRoot_InvalidBlockSize(t *testing.T) {
	root := writeTree(t)

	for _, size := range []string{"64KB", "abc", "100G", "16"} {
		t.Run(size, func(t *testing.T) {
			outDir := t.TempDir()
			_, err := run(t, "", root, "-o", outDir, "--block-size", size, "--no-progress")
			assert.ErrorContains(t, err, "block_size")

			entries, err := os.ReadDir(outDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}
