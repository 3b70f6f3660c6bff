package normalize

import (
	"bytes"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// IsText reports whether data sniffs as a byte-oriented text type.
// Structured formats such as XML, HTML and shell scripts descend from
// text/plain and count as text. Empty input counts as text.
//
// UTF-16 and UTF-32 text is reported as binary: their line endings are
// multi-byte and rewriting single CR bytes would corrupt them.
func IsText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	mt := mimetype.Detect(data)
	if cs := strings.ToLower(mt.String()); strings.Contains(cs, "charset=utf-16") || strings.Contains(cs, "charset=utf-32") {
		return false
	}
	for ; mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true
		}
	}
	return false
}
