package binary

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/testutil"
)

func writeArchive(t *testing.T, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "archive")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return p
}

func TestDetectFormat(t *testing.T) {
	entries := testutil.Files(map[string]string{"a.txt": "a"})

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{name: "zip", data: testutil.ZipBytes(t, entries), want: FormatZip},
		{name: "tar", data: testutil.TarBytes(t, entries), want: FormatTar},
		{name: "tar_gz", data: testutil.TarGzBytes(t, entries), want: FormatTarGzip},
		{name: "tar_xz", data: testutil.TarXzBytes(t, entries), want: FormatTarXz},
		{name: "plain_text", data: []byte("not an archive\n"), want: FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(writeArchive(t, tt.data))
			if err != nil {
				t.Fatalf("DetectFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormat_JarIsZip(t *testing.T) {
	// A zip whose first entry is a manifest sniffs as a jar, which is a zip.
	data := testutil.ZipBytes(t, []testutil.Entry{
		{Name: "META-INF/MANIFEST.MF", Body: "Manifest-Version: 1.0\n"},
	})
	got, err := DetectFormat(writeArchive(t, data))
	if err != nil {
		t.Fatalf("DetectFormat() error = %v", err)
	}
	if got != FormatZip {
		t.Errorf("DetectFormat() = %v, want zip", got)
	}
}

func TestExtract(t *testing.T) {
	files := map[string]string{
		"file1.txt":           "content1",
		"dir1/file2.txt":      "content2",
		"dir1/dir2/file3.txt": "content3",
	}
	entries := testutil.Files(files)

	builders := []struct {
		name  string
		build func(*testing.T, []testutil.Entry) []byte
	}{
		{"zip", testutil.ZipBytes},
		{"tar", testutil.TarBytes},
		{"tar_gz", testutil.TarGzBytes},
		{"tar_xz", testutil.TarXzBytes},
	}

	for _, b := range builders {
		t.Run(b.name, func(t *testing.T) {
			archivePath := writeArchive(t, b.build(t, entries))
			destDir := t.TempDir()

			if err := NewExtractor(nil).Extract(archivePath, destDir); err != nil {
				t.Fatalf("Extract() error = %v", err)
			}

			for name, want := range files {
				got, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(name)))
				if err != nil {
					t.Errorf("read %s: %v", name, err)
					continue
				}
				if string(got) != want {
					t.Errorf("content of %s = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestExtract_PreservesModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	entries := []testutil.Entry{
		{Name: "bin/tool", Body: "#!/bin/sh\n", Mode: 0o755},
		{Name: "bin/script", Body: "#!/bin/sh\n", Mode: 0o644},
	}

	for name, data := range map[string][]byte{
		"zip":    testutil.ZipBytes(t, entries),
		"tar_gz": testutil.TarGzBytes(t, entries),
	} {
		t.Run(name, func(t *testing.T) {
			destDir := t.TempDir()
			if err := NewExtractor(nil).Extract(writeArchive(t, data), destDir); err != nil {
				t.Fatalf("Extract() error = %v", err)
			}

			for _, e := range entries {
				info, err := os.Stat(filepath.Join(destDir, e.Name))
				if err != nil {
					t.Fatalf("stat %s: %v", e.Name, err)
				}
				if info.Mode().Perm() != e.Mode {
					t.Errorf("mode of %s = %o, want %o", e.Name, info.Mode().Perm(), e.Mode)
				}
			}
		})
	}
}

func TestExtract_PathTraversal(t *testing.T) {
	tests := []struct {
		name    string
		entries []testutil.Entry
		links   bool
	}{
		{
			name:    "dotdot_name",
			entries: []testutil.Entry{{Name: "../escape.txt", Body: "evil"}},
		},
		{
			// Each link is harmless on its own; together l1/esc is the parent.
			name: "chained_symlinks",
			entries: []testutil.Entry{
				{Name: "l1", Link: "."},
				{Name: "l1/esc", Link: ".."},
				{Name: "l1/esc/escape.txt", Body: "evil"},
			},
			links: true,
		},
		{
			// Lexically x/../.. stays in sub/, but x is a link to sub/ itself.
			name: "dotdot_through_symlink",
			entries: []testutil.Entry{
				{Name: "sub/x", Link: "."},
				{Name: "sub/y", Link: "x/../.."},
				{Name: "sub/y/escape.txt", Body: "evil"},
			},
			links: true,
		},
	}

	for _, tt := range tests {
		if tt.links && runtime.GOOS == "windows" {
			continue
		}
		for format, data := range map[string][]byte{
			"zip": testutil.ZipBytes(t, tt.entries),
			"tar": testutil.TarBytes(t, tt.entries),
		} {
			t.Run(tt.name+"/"+format, func(t *testing.T) {
				parent := t.TempDir()
				destDir := filepath.Join(parent, "dest")

				err := NewExtractor(nil).Extract(writeArchive(t, data), destDir)
				if err == nil {
					t.Fatal("expected error for path traversal")
				}
				if _, err := os.Lstat(filepath.Join(parent, "escape.txt")); !os.IsNotExist(err) {
					t.Error("file escaped the destination")
				}
			})
		}
	}
}

func TestExtract_ReplacesSymlinkWithFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	parent := t.TempDir()
	outside := filepath.Join(parent, "outside.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	destDir := filepath.Join(parent, "dest")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(destDir, "file.txt")); err != nil {
		t.Fatal(err)
	}

	entries := []testutil.Entry{{Name: "file.txt", Body: "new"}}
	if err := NewExtractor(nil).Extract(writeArchive(t, testutil.TarBytes(t, entries)), destDir); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	got, _ := os.ReadFile(outside)
	if string(got) != "keep" {
		t.Errorf("write followed symlink out of dest, outside.txt = %q", got)
	}
	fi, err := os.Lstat(filepath.Join(destDir, "file.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		t.Error("file.txt is still a symlink")
	}
}

func TestExtract_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	t.Run("inside_dest", func(t *testing.T) {
		entries := []testutil.Entry{
			{Name: "lib/real.txt", Body: "real"},
			{Name: "lib/alias.txt", Link: "real.txt"},
		}
		destDir := t.TempDir()
		if err := NewExtractor(nil).Extract(writeArchive(t, testutil.TarGzBytes(t, entries)), destDir); err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		got, err := os.ReadFile(filepath.Join(destDir, "lib", "alias.txt"))
		if err != nil {
			t.Fatalf("read through symlink: %v", err)
		}
		if string(got) != "real" {
			t.Errorf("symlink content = %q, want real", got)
		}
	})

	t.Run("escaping_dest", func(t *testing.T) {
		entries := []testutil.Entry{{Name: "lib/passwd", Link: "../../../etc/passwd"}}
		for name, data := range map[string][]byte{
			"zip": testutil.ZipBytes(t, entries),
			"tar": testutil.TarBytes(t, entries),
		} {
			t.Run(name, func(t *testing.T) {
				err := NewExtractor(nil).Extract(writeArchive(t, data), t.TempDir())
				if err == nil || !strings.Contains(err.Error(), "illegal symlink") {
					t.Errorf("Extract() error = %v, want illegal symlink", err)
				}
			})
		}
	})
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	archivePath := writeArchive(t, []byte("<html>not found</html>"))

	err := NewExtractor(nil).Extract(archivePath, t.TempDir())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Extract() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtract_SDKLayout(t *testing.T) {
	destDir := t.TempDir()
	data := testutil.ZipBytes(t, testutil.SDKEntries())

	if err := NewExtractor(nil).Extract(writeArchive(t, data), destDir); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	for _, e := range testutil.SDKEntries() {
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		got, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(e.Name)))
		if err != nil {
			t.Errorf("read %s: %v", e.Name, err)
			continue
		}
		if string(got) != e.Body {
			t.Errorf("%s was altered during extraction", e.Name)
		}
	}
}

func TestSafeJoin(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")

	tests := []struct {
		name    string
		entry   string
		wantErr bool
	}{
		{name: "plain", entry: "a/b.txt"},
		{name: "dot_prefix", entry: "./a.txt"},
		{name: "inner_dotdot", entry: "a/../b.txt"},
		{name: "parent", entry: "../b.txt", wantErr: true},
		{name: "deep_parent", entry: "a/../../b.txt", wantErr: true},
		{name: "sibling_prefix", entry: "../root-other/x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := safeJoin(root, tt.entry)
			if (err != nil) != tt.wantErr {
				t.Errorf("safeJoin(%q) error = %v, wantErr %v", tt.entry, err, tt.wantErr)
			}
		})
	}
}
