package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texhub/models"
)

func filesNamed(names ...string) []models.ProjectFile {
	files := make([]models.ProjectFile, len(names))
	for i, name := range names {
		files[i] = models.ProjectFile{ID: name, Name: name}
	}
	return files
}

func TestProjectTreeEmpty(t *testing.T) {
	tree := ProjectTree(nil)

	assert.Equal(t, map[string]bool{"": true}, tree.Dirs)
	assert.Empty(t, tree.Children[""])
	assert.Empty(t, tree.Files[""])
}

func TestProjectTreeImpliedIntermediates(t *testing.T) {
	tree := ProjectTree(filesNamed("a/b/c/deep.tex"))

	assert.True(t, tree.Dirs["a"])
	assert.True(t, tree.Dirs["a/b"])
	assert.True(t, tree.Dirs["a/b/c"])
	assert.Equal(t, []string{"a"}, tree.Children[""])
	assert.Equal(t, []string{"a/b"}, tree.Children["a"])
	assert.Equal(t, []string{"a/b/c"}, tree.Children["a/b"])
	require.Len(t, tree.Files["a/b/c"], 1)
	assert.Empty(t, tree.Files["a"])
	assert.Empty(t, tree.Files["a/b"])
}

func TestProjectTreePlaceholder(t *testing.T) {
	tree := ProjectTree(filesNamed("figures/.gitkeep", "main.tex"))

	assert.True(t, tree.Dirs["figures"])
	// Sentinels make directories exist but never show as files.
	assert.Empty(t, tree.Files["figures"])
	require.Len(t, tree.Files[""], 1)
	assert.Equal(t, "main.tex", tree.Files[""][0].Name)
}

func TestProjectTreeSorting(t *testing.T) {
	tree := ProjectTree(filesNamed(
		"sections/zeta.tex",
		"sections/alpha.tex",
		"zz/last.tex",
		"aa/first.tex",
		"main.tex",
	))

	assert.Equal(t, []string{"aa", "sections", "zz"}, tree.Children[""])
	names := []string{}
	for _, f := range tree.Files["sections"] {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"sections/alpha.tex", "sections/zeta.tex"}, names)
}

func TestProjectTreeOrderIndependent(t *testing.T) {
	names := []string{
		"main.tex",
		"refs.bib",
		"sections/intro.tex",
		"sections/body.tex",
		"figures/plots/fig1.png",
		"figures/.gitkeep",
		"appendix/a/b/deep.tex",
	}
	base := ProjectTree(filesNamed(names...))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]string{}, names...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		tree := ProjectTree(filesNamed(shuffled...))

		assert.Equal(t, base.Dirs, tree.Dirs)
		assert.Equal(t, base.Children, tree.Children)
		for dir := range base.Files {
			got := []string{}
			for _, f := range tree.Files[dir] {
				got = append(got, f.Name)
			}
			want := []string{}
			for _, f := range base.Files[dir] {
				want = append(want, f.Name)
			}
			assert.Equal(t, want, got, "dir %q", dir)
		}
	}
}

func TestImplicitDir(t *testing.T) {
	assert.Equal(t, "figures", ImplicitDir("figures/.gitkeep"))
	assert.Equal(t, "a/b", ImplicitDir("a/b/file.tex"))
	assert.Equal(t, "", ImplicitDir("main.tex"))
}
