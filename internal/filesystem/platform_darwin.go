//go:build darwin

package filesystem

import (
	"os"
	"syscall"
	"time"
)

// getChangeTime gets the change time from FileInfo (macOS)
func getChangeTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Ctimespec.Unix())
}

// getBirthTime reads the birth time APFS and HFS+ keep in the stat buffer
func getBirthTime(_ string, info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}
	}
	return time.Unix(stat.Birthtimespec.Unix())
}
