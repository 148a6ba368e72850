package cycler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"locpack/pkg/storage"
)

func testFolders() []storage.SourceFolder {
	return []storage.SourceFolder{
		{Name: "A", Path: "/src/A", Images: []string{"A1", "A2", "A3", "A4", "A5"}},
		{Name: "B", Path: "/src/B", Images: []string{"B1", "B2", "B3", "B4", "B5"}},
	}
}

func names(refs []ImageRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.FileName
	}
	return out
}

func TestAllocateEvenDistribution(t *testing.T) {
	// Two folders of five images each, drawn three at a time: the cursor
	// crosses the folder boundary mid-allocation and the final call
	// returns the shortfall.
	c := New(testFolders())

	assert.Equal(t, []string{"A1", "A2", "A3"}, names(c.Allocate(3)))
	assert.Equal(t, []string{"A4", "A5", "B1"}, names(c.Allocate(3)))
	assert.Equal(t, []string{"B2", "B3", "B4"}, names(c.Allocate(3)))
	assert.Equal(t, []string{"B5"}, names(c.Allocate(3)))
	assert.Empty(t, c.Allocate(3))
}

func TestAllocateNoWrapAround(t *testing.T) {
	c := New(testFolders())

	got := c.Allocate(20)
	assert.Len(t, got, 10, "all images returned once")
	assert.Empty(t, c.Allocate(1), "exhausted cycler never fabricates images")
}

func TestAllocateSkipsEmptyFolders(t *testing.T) {
	c := New([]storage.SourceFolder{
		{Name: "A", Path: "/src/A", Images: []string{"A1"}},
		{Name: "B", Path: "/src/B", Images: nil},
		{Name: "C", Path: "/src/C", Images: []string{"C1", "C2"}},
	})

	assert.Equal(t, []string{"A1", "C1"}, names(c.Allocate(2)))
	assert.Equal(t, []string{"C2"}, names(c.Allocate(2)))
}

func TestAllocateBuildsFullPaths(t *testing.T) {
	c := New(testFolders())

	refs := c.Allocate(1)
	assert.Len(t, refs, 1)
	assert.Equal(t, "A", refs[0].Folder)
	assert.Equal(t, "/src/A/A1", refs[0].Path)
}

func TestSkip(t *testing.T) {
	c := New(testFolders())

	c.Skip(4)
	assert.Equal(t, []string{"A5", "B1"}, names(c.Allocate(2)))

	// Skipping past the end just exhausts the cycler
	c.Skip(100)
	assert.True(t, c.Exhausted())
}

func TestRemaining(t *testing.T) {
	c := New(testFolders())

	assert.Equal(t, 10, c.Remaining())
	assert.False(t, c.Exhausted())

	c.Allocate(7)
	assert.Equal(t, 3, c.Remaining())

	c.Allocate(3)
	assert.Equal(t, 0, c.Remaining())
	assert.True(t, c.Exhausted())
}

func TestAllocateZeroCount(t *testing.T) {
	c := New(testFolders())

	assert.Empty(t, c.Allocate(0))
	assert.Equal(t, 10, c.Remaining())
}

func TestAllocateNoFolders(t *testing.T) {
	c := New(nil)

	assert.Empty(t, c.Allocate(5))
	assert.True(t, c.Exhausted())
}
