//go:build !linux

package yuv

import (
	"io/fs"
	"time"
)

func creationTime(_ string, fi fs.FileInfo) time.Time {
	return fi.ModTime()
}
