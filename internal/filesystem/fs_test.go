package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/IvanShishkin/fdigest/internal/config"
)

func TestNewOS(t *testing.T) {
	tests := []struct {
		source   string
		expected bool
	}{
		{"ctime", false},
		{"", false},
		{"birth", true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := NewOS(&config.Config{CreationTime: tt.source}).BirthTime; got != tt.expected {
				t.Errorf("NewOS(%q).BirthTime = %v, want %v", tt.source, got, tt.expected)
			}
		})
	}
}

func TestOS_Stat_SkipsBirthTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	stat, err := NewOS(defaultConfig()).Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !stat.BirthTime.IsZero() {
		t.Errorf("Stat() BirthTime = %v, want zero when creation time is ctime", stat.BirthTime)
	}
	if stat.Size != 5 || stat.ChangeTime.IsZero() || stat.ModTime.IsZero() {
		t.Errorf("Stat() = %+v, want size 5 and both timestamps set", stat)
	}
}
