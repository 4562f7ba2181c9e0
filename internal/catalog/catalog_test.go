package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	cat, err := LoadDefault()
	require.NoError(t, err)

	stats := cat.Stats()
	assert.Equal(t, 24, stats["courses"])
	assert.Equal(t, 2, stats["tracks"])
	assert.Equal(t, 8, stats["templates"])

	course, ok := cat.Course("CS 25100")
	require.True(t, ok)
	assert.Equal(t, "Data Structures and Algorithms", course.Title)
	assert.Equal(t, []string{"CS 18200", "CS 24000"}, course.Prerequisites)

	codo, ok := cat.CODO()
	require.True(t, ok)
	assert.InDelta(t, 3.2, codo.MinGPA, 0.001)
	assert.Equal(t, "B", codo.MinGrade)
}

func TestTrackAliasResolution(t *testing.T) {
	cat, err := LoadDefault()
	require.NoError(t, err)

	for _, name := range []string{"Machine Intelligence", "machine intelligence", "MI", "mi", "AI track"} {
		track, ok := cat.Track(name)
		require.True(t, ok, "alias %q should resolve", name)
		assert.Equal(t, "Machine Intelligence", track.Name)
	}

	_, ok := cat.Track("Quantum Basket Weaving")
	assert.False(t, ok)
}

func TestTemplateLookup(t *testing.T) {
	cat, err := LoadDefault()
	require.NoError(t, err)

	courses, ok := cat.Template("sophomore", "fall")
	require.True(t, ok)
	assert.Equal(t, []string{"CS 25000", "CS 25100", "MA 26100"}, courses)

	// A missing pair is a defined miss, not an error.
	_, ok = cat.Template("sophomore", "unknown")
	assert.False(t, ok)
}

func TestRequiredByInverseEdges(t *testing.T) {
	cat, err := LoadDefault()
	require.NoError(t, err)

	// Inverse edges are sorted for deterministic traversal.
	assert.Equal(t, []string{"CS 18200", "CS 24000"}, cat.RequiredBy("CS 18000"))
	assert.Empty(t, cat.RequiredBy("CS 40800"))
}

func TestTransitiveRequires(t *testing.T) {
	cat, err := LoadDefault()
	require.NoError(t, err)

	closure := cat.TransitiveRequires("CS 25200")
	assert.Equal(t,
		[]string{"CS 18000", "CS 18200", "CS 24000", "CS 25000", "CS 25100", "MA 16100"},
		closure)

	assert.Empty(t, cat.TransitiveRequires("CS 18000"))
}

// writeCatalogDir materializes a minimal catalog directory for load-failure
// tests.
func writeCatalogDir(t *testing.T, courses, tracks, templates string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"courses.yaml":   courses,
		"tracks.yaml":    tracks,
		"templates.yaml": templates,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoadRejectsDanglingPrerequisite(t *testing.T) {
	dir := writeCatalogDir(t, `
courses:
  - code: CS 10000
    title: Intro
    credits: 3
    prerequisites: [CS 99999]
`, "tracks: []", "templates: []")

	_, err := Load(dir)
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "dangling_reference", le.Kind)
}

func TestLoadRejectsCycle(t *testing.T) {
	dir := writeCatalogDir(t, `
courses:
  - code: CS 10000
    title: A
    credits: 3
    prerequisites: [CS 20000]
  - code: CS 20000
    title: B
    credits: 3
    prerequisites: [CS 30000]
  - code: CS 30000
    title: C
    credits: 3
    prerequisites: [CS 10000]
`, "tracks: []", "templates: []")

	_, err := Load(dir)
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "cycle", le.Kind)
}

func TestLoadRejectsDuplicateCourse(t *testing.T) {
	dir := writeCatalogDir(t, `
courses:
  - code: CS 10000
    title: A
    credits: 3
  - code: CS 10000
    title: A again
    credits: 3
`, "tracks: []", "templates: []")

	_, err := Load(dir)
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "duplicate_course", le.Kind)
}

func TestLoadRejectsDanglingTrackReference(t *testing.T) {
	dir := writeCatalogDir(t, `
courses:
  - code: CS 10000
    title: A
    credits: 3
`, `
tracks:
  - name: Ghost Track
    required: [CS 99999]
`, "templates: []")

	_, err := Load(dir)
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "dangling_reference", le.Kind)
}
