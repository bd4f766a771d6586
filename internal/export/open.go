package export

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"example.com/healthdata/internal/domain"
)

// Open opens the export file at path for scanning. Exports downloaded from a
// phone frequently arrive gzip-compressed, so the first bytes are sniffed and
// a decompressing reader is returned transparently when the gzip magic is
// present. A missing file maps to domain.ErrExportNotFound.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrExportNotFound, path)
		}
		return nil, fmt.Errorf("open export: %w", err)
	}

	br := bufio.NewReaderSize(f, 64*1024)
	magic, err := br.Peek(2)
	if err != nil {
		// Empty or tiny file: scan it as-is, the scanner reports EOF.
		return &readCloser{Reader: br, closer: f}, nil
	}

	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedExport, err)
		}
		return &readCloser{Reader: gz, closer: f}, nil
	}

	return &readCloser{Reader: br, closer: f}, nil
}

// readCloser pairs a wrapped reader with the file it draws from, so closing
// the scan source always releases the descriptor.
type readCloser struct {
	io.Reader
	closer io.Closer
}

func (rc *readCloser) Close() error {
	return rc.closer.Close()
}
