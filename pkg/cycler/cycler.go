// Package cycler draws images from multiple source folders through a
// rotating cursor, so allocations spread across folders instead of
// being tied to a single one.
package cycler

import (
	"path/filepath"

	"locpack/pkg/storage"
)

// ImageRef identifies one image inside a source folder
type ImageRef struct {
	Folder   string // source folder name
	FileName string
	Path     string // full path to the source file
}

// Cycler allocates images from an ordered list of source folders. The
// cursor advances within the current folder first and moves to the next
// folder when it is exhausted; it never wraps back, so once every folder
// is drained no more images exist. Cursor state lives only for the run.
type Cycler struct {
	folders   []storage.SourceFolder
	folderIdx int
	imageIdx  int
}

// New creates a cycler over the given source folders
func New(folders []storage.SourceFolder) *Cycler {
	return &Cycler{folders: folders}
}

// Allocate returns up to count images, advancing the cursor. A result
// shorter than count means the sources are exhausted; the caller accepts
// the shortfall and warns, it is never an error here.
func (c *Cycler) Allocate(count int) []ImageRef {
	var allocated []ImageRef
	for len(allocated) < count && c.folderIdx < len(c.folders) {
		folder := c.folders[c.folderIdx]
		if c.imageIdx >= len(folder.Images) {
			c.folderIdx++
			c.imageIdx = 0
			continue
		}
		name := folder.Images[c.imageIdx]
		allocated = append(allocated, ImageRef{
			Folder:   folder.Name,
			FileName: name,
			Path:     filepath.Join(folder.Path, name),
		})
		c.imageIdx++
	}
	return allocated
}

// Skip consumes and discards the next n images. Used at startup to
// advance past images drawn by prior runs, derived from the completion
// count rather than persisted cursor state.
func (c *Cycler) Skip(n int) {
	c.Allocate(n)
}

// Remaining returns the number of images not yet allocated
func (c *Cycler) Remaining() int {
	remaining := 0
	for i := c.folderIdx; i < len(c.folders); i++ {
		n := len(c.folders[i].Images)
		if i == c.folderIdx {
			n -= c.imageIdx
		}
		remaining += n
	}
	return remaining
}

// Exhausted checks if every source folder has been fully consumed
func (c *Cycler) Exhausted() bool {
	return c.Remaining() == 0
}
