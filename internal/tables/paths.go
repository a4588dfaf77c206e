package tables

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DataAlias prefixes file references that resolve against the data directory.
const DataAlias = "data:"

const separators = `/` + string(os.PathSeparator)

var separatorRun = regexp.MustCompile(`[/` + regexp.QuoteMeta(string(os.PathSeparator)) + `]{2,}`)

// FileSystem is the file existence and read primitive used by the importer.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem reads from the host file system.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (OSFileSystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// ResolvedPath is an absolute path that existed when it was resolved.
type ResolvedPath string

func (p ResolvedPath) String() string { return string(p) }

// SanitizePath strips traversal tokens and redundant separators from a user
// supplied file reference. Every ".." substring is removed, not only path
// segments. The result is a fixed point: sanitizing it again is a no-op.
func SanitizePath(name string) string {
	for {
		next := sanitizeOnce(name)
		if next == name {
			return next
		}
		name = next
	}
}

func sanitizeOnce(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.TrimLeft(name, separators)
	return separatorRun.ReplaceAllString(name, "/")
}

// Resolver maps file references to absolute paths.
type Resolver struct {
	DataDir string
	Files   FileSystem
}

// NewResolver constructs a resolver rooted at dataDir for aliased references.
func NewResolver(dataDir string, files FileSystem) *Resolver {
	if files == nil {
		files = OSFileSystem{}
	}
	return &Resolver{DataDir: dataDir, Files: files}
}

// Resolve sanitizes name and resolves it against the data directory when it
// carries the data alias, or against baseDir otherwise.
func (r *Resolver) Resolve(name, baseDir string) (ResolvedPath, error) {
	clean := SanitizePath(name)
	base := baseDir
	if strings.HasPrefix(clean, DataAlias) {
		base = r.DataDir
		clean = SanitizePath(strings.TrimPrefix(clean, DataAlias))
	}
	if clean == "" {
		return "", malformedMarkerError(name)
	}

	joined := joinPath(base, clean)
	abs, err := filepath.Abs(filepath.FromSlash(joined))
	if err != nil {
		return "", fileNotFoundError(name, joined)
	}

	files := r.Files
	if files == nil {
		files = OSFileSystem{}
	}
	info, err := files.Stat(abs)
	if err != nil || info.IsDir() {
		return "", fileNotFoundError(name, abs)
	}
	return ResolvedPath(abs), nil
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	if strings.HasSuffix(base, "/") || strings.HasSuffix(base, string(os.PathSeparator)) {
		return base + name
	}
	return base + "/" + name
}
