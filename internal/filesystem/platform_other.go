//go:build !linux && !darwin && !windows

package filesystem

import (
	"os"
	"time"
)

// getChangeTime falls back to the modification time where the stat layout is unknown
func getChangeTime(info os.FileInfo) time.Time {
	return info.ModTime()
}

func getBirthTime(_ string, _ os.FileInfo) time.Time {
	return time.Time{}
}
