package repository

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/CosmoTheDev/repolens/models"
)

// BuildFileTree walks root and returns its contents as a nested Dir.
// Every directory below root becomes a Dir keyed by its name and every other
// entry becomes a File. Symlinks are recorded as files and not followed.
func BuildFileTree(root string) (models.Dir, error) {
	tree := models.Dir{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		parts := strings.Split(filepath.ToSlash(rel), "/")
		parent := tree
		for _, part := range parts[:len(parts)-1] {
			parent = parent.Subdir(part)
		}

		name := parts[len(parts)-1]
		if d.IsDir() {
			parent.Subdir(name)
			return nil
		}
		parent[name] = models.File{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return tree, nil
}
