package services

import (
	"sort"
	"strings"

	"texhub/models"
)

// PlaceholderSuffix marks zero-byte sentinel files that make an otherwise
// empty directory visible. Sentinels contribute directory existence but are
// excluded from visible file lists.
const PlaceholderSuffix = "/.gitkeep"

// Tree is the hierarchical projection of a project's flat file list.
// The root directory is the empty path and always exists.
type Tree struct {
	Dirs     map[string]bool
	Children map[string][]string
	Files    map[string][]models.ProjectFile
}

func Dirname(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[:idx]
	}
	return ""
}

func Basename(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// IsPlaceholder reports whether the file only exists to mark a directory.
func IsPlaceholder(name string) bool {
	return strings.HasSuffix(name, PlaceholderSuffix)
}

// ImplicitDir returns the directory a file makes exist: its parent path, or
// for a placeholder sentinel the directory named by the sentinel itself.
func ImplicitDir(name string) string {
	if IsPlaceholder(name) {
		return strings.TrimSuffix(name, PlaceholderSuffix)
	}
	return Dirname(name)
}

// ProjectTree builds the directory projection from a flat file list. Every
// prefix of every registered path becomes a directory linked to its parent,
// so intermediate directories with no direct files stay visible. Output is
// independent of input order: children and per-directory files are sorted
// lexicographically (files by final segment).
func ProjectTree(files []models.ProjectFile) *Tree {
	children := make(map[string]map[string]bool)
	byDir := make(map[string][]models.ProjectFile)

	ensureDir := func(dir string) {
		if _, ok := children[dir]; !ok {
			children[dir] = make(map[string]bool)
		}
		if _, ok := byDir[dir]; !ok {
			byDir[dir] = []models.ProjectFile{}
		}
	}

	registerDirPath := func(dir string) {
		if dir == "" {
			return
		}
		current := ""
		for _, part := range strings.Split(dir, "/") {
			if part == "" {
				continue
			}
			parent := current
			if current == "" {
				current = part
			} else {
				current = current + "/" + part
			}
			ensureDir(parent)
			ensureDir(current)
			children[parent][current] = true
		}
	}

	ensureDir("")
	for _, file := range files {
		registerDirPath(ImplicitDir(file.Name))
	}

	for _, file := range files {
		if IsPlaceholder(file.Name) {
			continue
		}
		dir := Dirname(file.Name)
		ensureDir(dir)
		byDir[dir] = append(byDir[dir], file)
	}

	tree := &Tree{
		Dirs:     make(map[string]bool, len(children)),
		Children: make(map[string][]string, len(children)),
		Files:    byDir,
	}
	for dir, kids := range children {
		tree.Dirs[dir] = true
		names := make([]string, 0, len(kids))
		for kid := range kids {
			names = append(names, kid)
		}
		sort.Strings(names)
		tree.Children[dir] = names
	}
	for dir := range byDir {
		sort.Slice(byDir[dir], func(i, j int) bool {
			return Basename(byDir[dir][i].Name) < Basename(byDir[dir][j].Name)
		})
	}
	return tree
}
