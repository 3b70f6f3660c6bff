// Package normalize rewrites line endings in the text files of an extracted
// SDK. Archives built on Windows ship shell launchers with CRLF endings,
// which /bin/sh refuses to run.
//
// Files are classified by content, not by name: anything that sniffs as a
// text type is normalized to LF, everything else is left byte-for-byte
// untouched.
package normalize
