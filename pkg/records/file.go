package records

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/edgewatch/ipsync/pkg/errors"
)

const (
	// FileSuffix is the extension of every category file.
	FileSuffix = ".txt"

	// CombinedFileName holds every record from the last refresh run,
	// including unknown-country ones. It is a run artifact, not a
	// category file, so directory listings exclude it.
	CombinedFileName = "ip" + FileSuffix

	// filePermissions is the mode for category files.
	filePermissions = 0o644
)

// folder normalizes category tags for file naming. Two categories that
// fold to the same name share one file; their records are merged.
var folder = cases.Fold()

// FileName derives the category file name from a category tag.
func FileName(category string) string {
	return folder.String(category) + FileSuffix
}

// Render serializes a set as sorted, newline-terminated text. Rendering
// the result of a previous Render round-trips byte-for-byte.
func Render(set Set) string {
	if set.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for _, record := range set.Sorted() {
		b.WriteString(record)
		b.WriteString("\n")
	}
	return b.String()
}

// WriteFile replaces the file at path with the rendered set. The file is
// always either its previous complete content or the new complete content.
func WriteFile(path string, set Set) error {
	if err := os.WriteFile(path, []byte(Render(set)), filePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads and validates a category file. A missing file yields an
// empty set, not an error; the backup input to a merge is optional.
func Load(path string) (Set, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSet(), nil
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return ValidateText(string(content)), nil
}

// ListFiles returns the names of all category files directly under dir.
// A missing directory yields no files.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == CombinedFileName {
			continue
		}
		if filepath.Ext(entry.Name()) == FileSuffix {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
