package output

import (
	"path/filepath"
	"strings"
)

// DefaultExt is the extension used by OutputFilename when none is given.
const DefaultExt = ".tsv"

// OutputFilename derives a sibling output path by replacing the extension
// of input with "-<suffix><ext>". An empty ext means DefaultExt.
func OutputFilename(input, suffix, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "-" + suffix + ext
}
