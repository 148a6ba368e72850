// Package storage handles the filesystem surface of the engine: scanning
// source folders for images, managing destination folders under the
// target root, and the metadata-preserving copy primitive.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errs "locpack/pkg/errors"
)

// imageExtensions is the allowlist of file extensions treated as images
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// SourceFolder is one subfolder of the source root and its image files,
// established once at scan time and not re-read mid-run.
type SourceFolder struct {
	Name   string
	Path   string
	Images []string // filenames, sorted
}

// ImageCount returns the number of images in the folder
func (f SourceFolder) ImageCount() int {
	return len(f.Images)
}

// ScanSources lists the immediate subfolders of the source root and the
// image files each contains. Folders are returned in name order, images
// within a folder in name order.
func ScanSources(root string) ([]SourceFolder, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, fmt.Sprintf("failed to read source directory %s", root), err)
	}

	var folders []SourceFolder
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(root, entry.Name())
		images, err := listImages(folderPath)
		if err != nil {
			return nil, errs.Wrap(errs.ErrorTypeConfig, fmt.Sprintf("failed to read source folder %s", folderPath), err)
		}
		folders = append(folders, SourceFolder{
			Name:   entry.Name(),
			Path:   folderPath,
			Images: images,
		})
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

// listImages returns the sorted image filenames directly inside a folder
func listImages(folderPath string) ([]string, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, err
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if imageExtensions[ext] {
			images = append(images, entry.Name())
		}
	}

	sort.Strings(images)
	return images, nil
}

// Manager handles destination folders under the target root
type Manager struct {
	targetRoot string
}

// NewManager creates a destination manager, creating the target root if
// it does not exist yet.
func NewManager(targetRoot string) (*Manager, error) {
	if err := os.MkdirAll(targetRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}
	return &Manager{targetRoot: targetRoot}, nil
}

// TargetRoot returns the target root path
func (m *Manager) TargetRoot() string {
	return m.targetRoot
}

// FolderPath returns the destination path for a sanitized folder name
func (m *Manager) FolderPath(name string) string {
	return filepath.Join(m.targetRoot, name)
}

// FolderExists checks if a destination folder already exists
func (m *Manager) FolderExists(name string) bool {
	_, err := os.Stat(m.FolderPath(name))
	return err == nil
}

// CreateFolder creates a destination folder. A pre-existing folder is a
// conflict, never overwritten.
func (m *Manager) CreateFolder(name string) (string, error) {
	path := m.FolderPath(name)
	if err := os.Mkdir(path, 0755); err != nil {
		if os.IsExist(err) {
			return "", errs.Wrap(errs.ErrorTypeFolderConflict, fmt.Sprintf("destination folder %s already exists", path), err)
		}
		return "", fmt.Errorf("failed to create destination folder %s: %w", path, err)
	}
	return path, nil
}

// CopyFile copies src to dst preserving mode and modification time. The
// data is written to a temporary file and renamed into place so dst is
// never left partially written.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeCopy, fmt.Sprintf("failed to open %s", src), err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errs.Wrap(errs.ErrorTypeCopy, fmt.Sprintf("failed to stat %s", src), err)
	}

	tempPath := dst + ".tmp"
	out, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return errs.Wrap(errs.ErrorTypeCopy, fmt.Sprintf("failed to create %s", tempPath), err)
	}

	_, err = io.Copy(out, in)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempPath)
		return errs.Wrap(errs.ErrorTypeCopy, fmt.Sprintf("failed to copy %s", src), err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return errs.Wrap(errs.ErrorTypeCopy, fmt.Sprintf("failed to close %s", tempPath), closeErr)
	}

	if err := os.Rename(tempPath, dst); err != nil {
		os.Remove(tempPath)
		return errs.Wrap(errs.ErrorTypeCopy, fmt.Sprintf("failed to rename %s", tempPath), err)
	}

	// Mirror the source timestamps the way a metadata-preserving copy does
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return errs.Wrap(errs.ErrorTypeCopy, fmt.Sprintf("failed to set times on %s", dst), err)
	}

	return nil
}
