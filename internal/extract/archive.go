package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// maxEntrySize bounds a single decompressed archive entry.
const maxEntrySize = 32 << 20

// Expand replaces every .zip file with its supported entries. Other files pass
// through untouched. A broken archive yields an *Error for that archive while
// the remaining files are still returned.
func (e *Extractor) Expand(files []File) ([]File, []error) {
	var (
		out  []File
		errs []error
	)

	for _, f := range files {
		if !strings.EqualFold(path.Ext(f.Name), ".zip") {
			out = append(out, f)
			continue
		}

		entries, err := e.unzip(f)
		if err != nil {
			errs = append(errs, &Error{File: f.Name, Err: err})
			continue
		}
		out = append(out, entries...)
	}

	return out, errs
}

func (e *Extractor) unzip(f File) ([]File, error) {
	zr, err := zip.NewReader(bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var entries []File
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !e.Supported(zf.Name) {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", zf.Name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", zf.Name, err)
		}
		if len(data) > maxEntrySize {
			return nil, fmt.Errorf("%s exceeds %d bytes", zf.Name, maxEntrySize)
		}

		entries = append(entries, File{Name: zf.Name, Data: data})
	}

	return entries, nil
}
