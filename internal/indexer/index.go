// index.go — ProjectFileIndex construction.
package indexer

import (
	"sort"
	"strings"
	"time"
)

// ProjectFileIndex is the persisted index of one project.
type ProjectFileIndex struct {
	Alias      string    `json:"alias,omitempty"`
	SourcePath string    `json:"sourcePath,omitempty"`
	Files      []string  `json:"files"`
	Folders    []string  `json:"folders"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Empty reports whether the index holds no files.
func (idx ProjectFileIndex) Empty() bool { return len(idx.Files) == 0 }

// Build creates an index from raw relative paths. Files keep their first-seen
// order; folders are every proper prefix of a kept file, sorted, each with a
// trailing slash.
func Build(paths []string, alias string, extensions []string, now time.Time) ProjectFileIndex {
	allowed := ExtensionSet(extensions)
	normalized := NormalizePaths(paths, alias)

	files := make([]string, 0, len(normalized))
	seenFiles := make(map[string]bool, len(normalized))
	folderSet := make(map[string]bool)
	for _, p := range normalized {
		if seenFiles[p] || !Retain(p, allowed) {
			continue
		}
		seenFiles[p] = true
		files = append(files, p)
		for _, f := range FolderPrefixes(p) {
			folderSet[f] = true
		}
	}

	folders := make([]string, 0, len(folderSet))
	for f := range folderSet {
		folders = append(folders, f)
	}
	sort.Strings(folders)

	return ProjectFileIndex{
		Alias:     alias,
		Files:     files,
		Folders:   folders,
		UpdatedAt: now.UTC(),
	}
}

// FolderPrefixes returns every proper folder prefix of file, each with a
// trailing slash: "a/b/c.ts" yields "a/" and "a/b/".
func FolderPrefixes(file string) []string {
	parts := strings.Split(file, "/")
	if len(parts) < 2 {
		return nil
	}
	out := make([]string, 0, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		out = append(out, strings.Join(parts[:i], "/")+"/")
	}
	return out
}
