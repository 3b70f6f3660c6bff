package binary

import (
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
)

// StatusError reports a final HTTP response with status >= 400.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	Header     http.Header
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("unexpected response from %s: status %s", e.URL, status)
}

// Format identifies an archive container.
type Format int

const (
	// FormatUnknown is anything the extractor cannot unpack.
	FormatUnknown Format = iota
	// FormatZip is a zip archive.
	FormatZip
	// FormatTar is an uncompressed tar archive.
	FormatTar
	// FormatTarGzip is a gzip-compressed tar archive.
	FormatTarGzip
	// FormatTarXz is an xz-compressed tar archive.
	FormatTarXz
)

// String returns the conventional file suffix of the format.
func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTar:
		return "tar"
	case FormatTarGzip:
		return "tar.gz"
	case FormatTarXz:
		return "tar.xz"
	default:
		return "unknown"
	}
}

// orDiscard returns l, or a logger that drops everything when l is nil.
func orDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}
