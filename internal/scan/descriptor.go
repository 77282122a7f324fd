package scan

import (
	"path"
	"strings"
)

// FileType classifies a scanned file for downstream consumers.
type FileType string

const (
	CodeFile FileType = "CodeFile"
	Doc      FileType = "Doc"
	Other    FileType = "Other"
)

// FileDescriptor describes one file found under the repository root.
// Paths are relative to the root and always use forward slashes.
type FileDescriptor struct {
	Path     string   `json:"path"`
	Type     FileType `json:"type"`
	Language string   `json:"language"`
}

var codeExtensions = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".tsx":  "tsx",
	".jsx":  "jsx",
	".java": "java",
	".go":   "go",
	".rs":   "rust",
	".rb":   "ruby",
	".php":  "php",
	".cs":   "csharp",
	".cpp":  "cpp",
	".c":    "c",
	".h":    "c-header",
	".jac":  "jac",
}

var docExtensions = map[string]string{
	".md":  "md",
	".rst": "rst",
}

// Classify maps a relative path to a FileDescriptor based on its extension.
func Classify(relPath string) FileDescriptor {
	ext := strings.ToLower(path.Ext(relPath))
	if lang, ok := codeExtensions[ext]; ok {
		return FileDescriptor{Path: relPath, Type: CodeFile, Language: lang}
	}
	if lang, ok := docExtensions[ext]; ok {
		return FileDescriptor{Path: relPath, Type: Doc, Language: lang}
	}
	return FileDescriptor{Path: relPath, Type: Other, Language: strings.TrimPrefix(ext, ".")}
}
