//go:build linux

package yuv

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the birth time from statx, falling back to the modification time
// on file systems that do not record it.
func creationTime(path string, fi fs.FileInfo) time.Time {
	var stx unix.Statx_t

	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return fi.ModTime()
	}

	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
