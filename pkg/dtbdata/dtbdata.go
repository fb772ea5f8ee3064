// Package dtbdata extracts the summary of a kernel-flavoured dtb file that the
// mapping generator works with: relative path, model and compatible list.
package dtbdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/fdtshim-mapping/pkg/fdt"
)

var (
	ErrNoCompatible = errors.New("dtbdata: root node has no compatible strings")
	ErrNotUnderRoot = errors.New("dtbdata: file is not under the scanned root")
)

// Record is the simplified overview of one dtb file.
// Records are compared by Path only; see ComparePath.
type Record struct {
	// Path relative to the scanned root, with forward slashes.
	Path string
	// Model is the root node "model" property, or "" when absent.
	Model string
	// Compatibles is the root node "compatible" list in declared order.
	// Never empty for a record returned by Extract.
	Compatibles []string
}

// Extract reads filePath and builds its record. rootPrefix must be a path
// prefix of filePath; it is stripped to form Record.Path.
func Extract(filePath, rootPrefix string) (*Record, error) {
	rel, err := relativePath(filePath, rootPrefix)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("dtbdata: failed to read %s: %w", filePath, err)
	}

	rec, err := ExtractBytes(rel, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return rec, nil
}

// ExtractBytes builds a record from an in-memory blob stored at the relative
// path rel.
func ExtractBytes(rel string, data []byte) (*Record, error) {
	tree, err := fdt.Parse(data)
	if err != nil {
		return nil, err
	}

	root := tree.Root()
	var model string
	if prop, ok := root.Property("model"); ok {
		model, err = prop.AsString()
		if err != nil {
			return nil, err
		}
	}

	prop, ok := root.Property("compatible")
	if !ok {
		return nil, ErrNoCompatible
	}
	compatibles, err := prop.AsStringList()
	if err != nil {
		return nil, err
	}
	// the primary compatible is the grouping key, it cannot be blank
	if len(compatibles) == 0 || compatibles[0] == "" {
		return nil, ErrNoCompatible
	}

	return &Record{
		Path:        rel,
		Model:       model,
		Compatibles: compatibles,
	}, nil
}

func relativePath(filePath, rootPrefix string) (string, error) {
	file := filepath.Clean(filePath)
	root := filepath.Clean(rootPrefix)

	rel, err := filepath.Rel(root, file)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s not under %s", ErrNotUnderRoot, filePath, rootPrefix)
	}
	return filepath.ToSlash(rel), nil
}

// Compatible returns the primary (first) compatible string.
func (r *Record) Compatible() string {
	return r.Compatibles[0]
}

// NodeName derives a node name from the path:
//   - the first ".dtb" is removed,
//   - the first slash becomes "@",
//   - any further slashes become "_".
//
// The result is an opaque identifier that is unique per path. It must not be
// parsed for meaning.
func (r *Record) NodeName() string {
	name := strings.Replace(r.Path, ".dtb", "", 1)
	name = strings.Replace(name, "/", "@", 1)
	return strings.ReplaceAll(name, "/", "_")
}

// CompatiblesSource renders the compatible list as a dts string array value:
// "a", "b", "c".
func (r *Record) CompatiblesSource() string {
	quoted := make([]string, len(r.Compatibles))
	for i, c := range r.Compatibles {
		quoted[i] = Quote(c)
	}
	return strings.Join(quoted, ", ")
}

// CompatiblesDebug renders the compatible list for a comment: ["a", "b"].
func (r *Record) CompatiblesDebug() string {
	return "[" + r.CompatiblesSource() + "]"
}

// ComparePath orders records by Path.
func ComparePath(a, b *Record) int {
	return strings.Compare(a.Path, b.Path)
}
