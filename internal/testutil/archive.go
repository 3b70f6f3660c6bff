package testutil

import (
	"archive/tar"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/ulikunitz/xz"
)

// Entry is one archive member. Names ending in "/" are directories. A zero
// Mode defaults to 0644 for files and 0755 for directories. Link makes the
// entry a symlink pointing at Link.
type Entry struct {
	Name string
	Body string
	Mode fs.FileMode
	Link string
}

func (e Entry) isDir() bool { return strings.HasSuffix(e.Name, "/") }

func (e Entry) mode() fs.FileMode {
	if e.Mode != 0 {
		return e.Mode
	}
	if e.isDir() {
		return 0o755
	}
	return 0o644
}

// Files turns a name->body map into entries sorted by name.
func Files(files map[string]string) []Entry {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Body: files[name]})
	}
	return entries
}

// ZipBytes builds a zip archive in memory.
func ZipBytes(t *testing.T, entries []Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		switch {
		case e.Link != "":
			hdr.SetMode(fs.ModeSymlink | 0o777)
		case e.isDir():
			hdr.SetMode(fs.ModeDir | e.mode())
		default:
			hdr.SetMode(e.mode())
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("zip header %s: %v", e.Name, err)
		}
		body := e.Body
		if e.Link != "" {
			body = e.Link
		}
		if _, err := io.WriteString(w, body); err != nil {
			t.Fatalf("zip body %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// TarBytes builds an uncompressed tar archive in memory.
func TarBytes(t *testing.T, entries []Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: int64(e.mode().Perm())}
		switch {
		case e.Link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.Link
		case e.isDir():
			hdr.Typeflag = tar.TypeDir
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.Body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := io.WriteString(tw, e.Body); err != nil {
				t.Fatalf("tar body %s: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	return buf.Bytes()
}

// TarGzBytes builds a gzip-compressed tar archive in memory.
func TarGzBytes(t *testing.T, entries []Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(TarBytes(t, entries)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}

// TarXzBytes builds an xz-compressed tar archive in memory.
func TarXzBytes(t *testing.T, entries []Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := xw.Write(TarBytes(t, entries)); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := xw.Close(); err != nil {
		t.Fatalf("close xz: %v", err)
	}
	return buf.Bytes()
}

// SDKEntries returns a miniature Flex SDK layout: unix launchers without
// exec bits and with CRLF endings, Windows launchers, a jar, and docs.
func SDKEntries() []Entry {
	launcher := "#!/bin/sh\r\n" +
		"FLEX_HOME=`dirname \"$0\"`/..\r\n" +
		"VMARGS=\"-Xmx384m -Dsun.io.useCanonCaches=false\"\r\n" +
		"java $VMARGS -jar \"$FLEX_HOME/lib/mxmlc.jar\" +flexlib=\"$FLEX_HOME/frameworks\" \"$@\"\r\n"
	return []Entry{
		{Name: "bin/"},
		{Name: "bin/mxmlc", Body: launcher, Mode: 0o644},
		{Name: "bin/compc", Body: strings.ReplaceAll(launcher, "mxmlc.jar", "compc.jar"), Mode: 0o644},
		{Name: "bin/fdb", Body: "#!/bin/sh\nexec java -jar fdb.jar \"$@\"\n", Mode: 0o755},
		{Name: "bin/mxmlc.bat", Body: "@echo off\r\njava -jar mxmlc.jar %*\r\n"},
		{Name: "bin/mxmlc.exe", Body: "MZ\x90\x00\x03\x00\x00\x00\x04\x00\x00\x00\xff\xff"},
		{Name: "lib/"},
		{Name: "lib/mxmlc.jar", Body: "PK\x03\x04\x14\x00\x00\x00\x08\x00\x00\x00\x00\x00"},
		{Name: "frameworks/flex-config.xml", Body: "<flex-config>\r\n  <compiler/>\r\n</flex-config>\r\n"},
		{Name: "README.txt", Body: "Flex SDK\nAlready unix.\n"},
		{Name: path.Join("samples", "old-mac.txt"), Body: "line one\rline two\r"},
	}
}

// WriteEntries materializes entries under root as if they had been
// extracted, honouring modes and symlinks.
func WriteEntries(t *testing.T, root string, entries []Entry) {
	t.Helper()

	for _, e := range entries {
		switch {
		case e.Link != "":
			p := filepath.Join(root, filepath.FromSlash(e.Name))
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				t.Fatalf("create parent of %s: %v", p, err)
			}
			if err := os.Symlink(e.Link, p); err != nil {
				t.Fatalf("symlink %s: %v", p, err)
			}
		case e.isDir():
			p := filepath.Join(root, filepath.FromSlash(e.Name))
			if err := os.MkdirAll(p, e.mode()); err != nil {
				t.Fatalf("mkdir %s: %v", p, err)
			}
		default:
			WriteFile(t, root, e.Name, []byte(e.Body), e.mode())
		}
	}
}
