//go:build linux

package filesystem

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// getChangeTime gets the change time from FileInfo (Linux)
func getChangeTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	// Use ctime (change time)
	return time.Unix(stat.Ctim.Unix())
}

// getBirthTime asks statx for the inode birth time; zero when the kernel or
// filesystem does not report one
func getBirthTime(path string, _ os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
