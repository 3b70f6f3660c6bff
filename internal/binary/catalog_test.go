package binary

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/platform"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/testutil"
)

var (
	linuxInfo   = &platform.Info{OS: "linux", Arch: "amd64"}
	windowsInfo = &platform.Info{OS: "windows", Arch: "amd64"}
)

func TestCatalog_Refresh(t *testing.T) {
	tests := []struct {
		name  string
		info  *platform.Info
		files []string
		want  map[string]string
	}{
		{
			name:  "unix_extensionless",
			info:  linuxInfo,
			files: []string{"bin/mxmlc", "bin/mxmlc.bat", "bin/compc"},
			want:  map[string]string{"mxmlc": "bin/mxmlc", "compc": "bin/compc"},
		},
		{
			name:  "windows_prefers_bat",
			info:  windowsInfo,
			files: []string{"bin/mxmlc", "bin/mxmlc.bat", "bin/mxmlc.exe", "bin/compc.exe"},
			want:  map[string]string{"mxmlc": "bin/mxmlc.bat", "compc": "bin/compc.exe"},
		},
		{
			name:  "missing_roles_tolerated",
			info:  linuxInfo,
			files: []string{"bin/fdb"},
			want:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for _, f := range tt.files {
				testutil.WriteFile(t, root, f, []byte("#!/bin/sh\n"), 0o644)
			}

			c := NewCatalog(root, "bin", []string{"mxmlc", "compc"}, tt.info)
			if err := c.Refresh(); err != nil {
				t.Fatalf("Refresh() error = %v", err)
			}

			got := c.Bin()
			if len(got) != len(tt.want) {
				t.Fatalf("Bin() = %v, want %v", got, tt.want)
			}
			for role, rel := range tt.want {
				want := filepath.Join(root, filepath.FromSlash(rel))
				if got[role] != want {
					t.Errorf("Bin()[%s] = %q, want %q", role, got[role], want)
				}
			}
		})
	}
}

func TestCatalog_EmptyBeforeRefresh(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "bin/mxmlc", []byte("x"), 0o755)

	c := NewCatalog(root, "bin", []string{"mxmlc"}, linuxInfo)
	if len(c.Bin()) != 0 {
		t.Error("catalog populated before Refresh")
	}
	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Path("mxmlc"); !ok {
		t.Error("mxmlc missing after Refresh")
	}
}

func TestCatalog_SkipsDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "bin", "mxmlc"), 0o755); err != nil {
		t.Fatal(err)
	}

	c := NewCatalog(root, "bin", []string{"mxmlc"}, linuxInfo)
	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Path("mxmlc"); ok {
		t.Error("directory catalogued as launcher")
	}
}

func TestCatalog_MissingBinDir(t *testing.T) {
	c := NewCatalog(t.TempDir(), "bin", []string{"mxmlc"}, linuxInfo)
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if len(c.Bin()) != 0 {
		t.Error("expected empty catalog")
	}
}

func TestCatalog_RefreshDropsRemoved(t *testing.T) {
	root := t.TempDir()
	p := testutil.WriteFile(t, root, "bin/mxmlc", []byte("x"), 0o755)

	c := NewCatalog(root, "bin", []string{"mxmlc"}, linuxInfo)
	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Path("mxmlc"); ok {
		t.Error("stale entry survived Refresh")
	}
}

func TestCatalog_Accessors(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "sdk/bin/compc", []byte("x"), 0o755)
	testutil.WriteFile(t, root, "sdk/bin/mxmlc", []byte("x"), 0o755)

	c := NewCatalog(root, filepath.Join("sdk", "bin"), []string{"mxmlc", "compc", "fdb"}, linuxInfo)
	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}

	if c.Root() != root {
		t.Errorf("Root() = %q", c.Root())
	}
	if want := filepath.Join(root, "sdk", "bin"); c.BinDir() != want {
		t.Errorf("BinDir() = %q, want %q", c.BinDir(), want)
	}
	if got := c.Roles(); !slices.Equal(got, []string{"compc", "mxmlc"}) {
		t.Errorf("Roles() = %v", got)
	}

	bin := c.Bin()
	bin["mxmlc"] = "tampered"
	if p, _ := c.Path("mxmlc"); p == "tampered" {
		t.Error("Bin() exposed internal map")
	}
}
