package yuv

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfbus/httprs"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

// Source is a read-only, random-access view of a raw file.
// A Source is owned by one File and is not safe for concurrent use.
type Source struct {
	reader io.ReadSeeker
	closer io.Closer

	name string
	path string
	size int64

	created  time.Time
	modified time.Time
}

// NewSource creates a source from a seekable reader. The size is discovered by seeking to the end.
func NewSource(r io.ReadSeeker, name string) (*Source, error) {
	s := &Source{
		reader: r,
		name:   filepath.Base(name),
		path:   name,
	}

	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	off, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	s.size = off
	_, err = r.Seek(cur, io.SeekStart)
	if err != nil {
		return nil, err
	}

	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}

	return s, nil
}

// OpenSource opens a raw file. Files ending in .zst or .gz are decompressed into memory,
// the name used for inference is the file name without the compression suffix.
func OpenSource(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := file.Stat()
	if err != nil {
		_ = file.Close()

		return nil, err
	}

	name := path
	var r io.ReadSeeker = file

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".zst" || ext == ".gz" {
		data, err := decompress(file, ext)
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		name = strings.TrimSuffix(path, filepath.Ext(path))
		r = bytes.NewReader(data)
	}

	s, err := NewSource(r, name)
	if err != nil {
		_ = file.Close()

		return nil, err
	}

	s.path = path
	s.modified = fi.ModTime()
	s.created = creationTime(path, fi)

	return s, nil
}

// OpenSourceURL opens a raw file over HTTP. The server must support range requests.
func OpenSourceURL(url string) (*Source, error) {
	res, err := http.Get(url)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		_ = res.Body.Close()

		return nil, fmt.Errorf("%s: %s", url, res.Status)
	}

	r := httprs.NewHttpReadSeeker(res)

	s, err := NewSource(r, url)
	if err != nil {
		_ = r.Close()

		return nil, err
	}

	if t, err := http.ParseTime(res.Header.Get("Last-Modified")); err == nil {
		s.modified = t
		s.created = t
	}

	return s, nil
}

// Name returns the base name of the source.
func (s *Source) Name() string {
	return s.name
}

// Path returns the path or URL the source was opened from.
func (s *Source) Path() string {
	return s.path
}

// Size returns the size of the source in bytes.
func (s *Source) Size() int64 {
	return s.size
}

// Created returns the creation time, zero if unknown.
func (s *Source) Created() time.Time {
	return s.created
}

// Modified returns the modification time, zero if unknown.
func (s *Source) Modified() time.Time {
	return s.modified
}

// ReadAt reads len(p) bytes at offset off. It returns ErrShortRead together with the number of bytes read
// when the source ends before p is filled.
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrOutOfBounds, off)
	}

	_, err := s.reader.Seek(off, io.SeekStart)
	if err != nil {
		return 0, err
	}

	n, err := io.ReadFull(s.reader, p)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		logger.WithFields(logrus.Fields{
			"function": "ReadAt",
			"name":     s.name,
			"offset":   off,
			"want":     len(p),
			"got":      n,
		}).Warn("Short read")

		return n, fmt.Errorf("%w: got %d bytes, want %d", ErrShortRead, n, len(p))
	}

	return n, err
}

// Close closes the underlying reader.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

func decompress(r io.Reader, ext string) ([]byte, error) {
	switch ext {
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()

		return io.ReadAll(dec)
	default:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()

		return io.ReadAll(gz)
	}
}
