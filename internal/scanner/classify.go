package scanner

import (
	"path/filepath"
	"strings"

	"github.com/smy-101/skillmarket/internal/types"
)

var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdx":      true,
}

var codeExts = map[string]bool{
	".py": true, ".js": true, ".mjs": true, ".cjs": true, ".ts": true, ".tsx": true,
	".jsx": true, ".go": true, ".rs": true, ".rb": true, ".java": true, ".kt": true,
	".c": true, ".h": true, ".cpp": true, ".hpp": true, ".cs": true, ".php": true,
	".swift": true, ".sh": true, ".bash": true, ".zsh": true, ".ps1": true, ".sql": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".html": true, ".css": true,
	".scss": true, ".lua": true, ".r": true,
}

// ClassifyFile derives the file type from the extension. Unknown extensions
// are text.
func ClassifyFile(name string) types.FileType {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case markdownExts[ext]:
		return types.FileTypeMarkdown
	case codeExts[ext]:
		return types.FileTypeCode
	default:
		return types.FileTypeText
	}
}
