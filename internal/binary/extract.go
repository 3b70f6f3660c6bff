package binary

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/ulikunitz/xz"
)

// maxEntryBytes caps a single extracted file. The largest file in the
// Flex SDK is well under this.
const maxEntryBytes = 1 << 30

// ErrUnsupportedFormat is returned when the archive is not zip or tar based.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// Extractor handles archive extraction
type Extractor struct {
	logger *log.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(logger *log.Logger) *Extractor {
	return &Extractor{logger: orDiscard(logger)}
}

// DetectFormat sniffs the archive's content. The file name is not consulted
// because download URLs rarely carry a trustworthy suffix.
func DetectFormat(archivePath string) (Format, error) {
	mt, err := mimetype.DetectFile(archivePath)
	if err != nil {
		return FormatUnknown, fmt.Errorf("detect archive format: %w", err)
	}
	return formatOf(mt), nil
}

func formatOf(mt *mimetype.MIME) Format {
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is("application/zip"):
			return FormatZip
		case m.Is("application/gzip"):
			return FormatTarGzip
		case m.Is("application/x-xz"):
			return FormatTarXz
		case m.Is("application/x-tar"):
			return FormatTar
		}
	}
	return FormatUnknown
}

// Extract unpacks archivePath into destDir, creating destDir if needed.
func (e *Extractor) Extract(archivePath, destDir string) error {
	format, err := DetectFormat(archivePath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}
	// Entries are checked against the real destination so that symlinks
	// created earlier in the archive cannot redirect later writes.
	realDest, err := filepath.EvalSymlinks(destDir)
	if err != nil {
		return fmt.Errorf("resolve dest dir: %w", err)
	}

	e.logger.Info("Extracting", "format", format.String(), "dest", destDir)

	switch format {
	case FormatZip:
		return e.extractZip(archivePath, realDest)
	case FormatTar, FormatTarGzip, FormatTarXz:
		return e.extractTarFile(archivePath, realDest, format)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, archivePath)
	}
}

func (e *Extractor) extractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	var count int
	for _, f := range zr.File {
		target, err := resolveEntry(destDir, f.Name)
		if err != nil {
			return err
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case mode&fs.ModeSymlink != 0:
			link, err := readZipLink(f)
			if err != nil {
				return err
			}
			if err := e.symlink(destDir, target, link); err != nil {
				return err
			}

		case mode.IsRegular():
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open zip entry %s: %w", f.Name, err)
			}
			err = writeFile(target, rc, mode.Perm())
			rc.Close()
			if err != nil {
				return err
			}
			count++

		default:
			e.logger.Debug("Skipping special entry", "name", f.Name)
		}
	}

	e.logger.Debug("Extracted zip", "files", count)
	return nil
}

func readZipLink(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, 4096))
	if err != nil {
		return "", fmt.Errorf("read link %s: %w", f.Name, err)
	}
	return string(b), nil
}

func (e *Extractor) extractTarFile(archivePath, destDir string, format Format) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	var r io.Reader = archiveFile
	switch format {
	case FormatTarGzip:
		gzipReader, err := gzip.NewReader(archiveFile)
		if err != nil {
			return fmt.Errorf("create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		r = gzipReader
	case FormatTarXz:
		xzReader, err := xz.NewReader(archiveFile)
		if err != nil {
			return fmt.Errorf("create xz reader: %w", err)
		}
		r = xzReader
	}

	return e.extractTar(tar.NewReader(r), destDir)
}

func (e *Extractor) extractTar(tarReader *tar.Reader, destDir string) error {
	var count int
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		target, err := resolveEntry(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := writeFile(target, tarReader, fs.FileMode(header.Mode).Perm()); err != nil {
				return err
			}
			count++

		case tar.TypeSymlink:
			if err := e.symlink(destDir, target, header.Linkname); err != nil {
				return err
			}

		default:
			// Hard links, devices and fifos have no place in an SDK.
			e.logger.Debug("Skipping special entry", "name", header.Name)
		}
	}

	e.logger.Debug("Extracted tar", "files", count)
	return nil
}

// symlink creates target -> link, refusing links that resolve outside
// destDir. target's parent is already resolved, so the check sees where the
// link really points.
func (e *Extractor) symlink(destDir, target, link string) error {
	if filepath.IsAbs(link) {
		return fmt.Errorf("illegal symlink %s -> %s", target, link)
	}
	parent := filepath.Dir(target)
	if !within(destDir, filepath.Join(parent, link)) {
		return fmt.Errorf("illegal symlink %s -> %s", target, link)
	}
	// Lexical cleaning of "a/../.." is wrong when a is itself a link;
	// resolve whatever part of the target already exists.
	if resolved, err := filepath.EvalSymlinks(parent + string(os.PathSeparator) + link); err == nil && !within(destDir, resolved) {
		return fmt.Errorf("illegal symlink %s -> %s", target, link)
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}
	os.Remove(target)
	if err := os.Symlink(link, target); err != nil {
		return fmt.Errorf("create symlink %s: %w", target, err)
	}
	return nil
}

// writeFile copies at most maxEntryBytes of r into target. A zero
// permission, common in zips made on Windows, becomes 0644.
func writeFile(target string, r io.Reader, perm fs.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}
	// Replace, never write through, a link left by an earlier entry.
	if fi, err := os.Lstat(target); err == nil && fi.Mode()&fs.ModeSymlink != 0 {
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("replace symlink %s: %w", target, err)
		}
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	n, err := io.CopyN(outFile, r, maxEntryBytes+1)
	if err != nil && err != io.EOF {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}
	if n > maxEntryBytes {
		outFile.Close()
		return fmt.Errorf("file %s exceeds %d bytes", target, int64(maxEntryBytes))
	}
	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}

	// OpenFile is subject to umask; the archive's bits are authoritative.
	if err := os.Chmod(target, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", target, err)
	}
	return nil
}

// safeJoin joins name under destDir and rejects path traversal.
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if !within(destDir, target) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	return target, nil
}

// resolveEntry maps an archive entry name to its real location under
// destDir, which must itself be fully resolved. The nearest existing
// ancestor of the entry is resolved through symlinks and must stay inside
// destDir; the returned path uses that resolved ancestor.
func resolveEntry(destDir, name string) (string, error) {
	target, err := safeJoin(destDir, name)
	if err != nil {
		return "", err
	}
	if target == destDir {
		return target, nil
	}

	dir := filepath.Dir(target)
	rest := []string{filepath.Base(target)}
	for {
		realDir, err := filepath.EvalSymlinks(dir)
		if err == nil {
			resolved := filepath.Join(append([]string{realDir}, rest...)...)
			if !within(destDir, resolved) {
				return "", fmt.Errorf("illegal file path: %s resolves outside the destination", name)
			}
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("resolve %s: %w", dir, err)
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = filepath.Dir(dir)
	}
}

func within(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}
