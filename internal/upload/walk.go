package upload

import (
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Task is one file to upload: where it lives locally, the object key it gets,
// and the content type derived from its extension.
type Task struct {
	LocalPath   string
	Key         string
	ContentType string
}

// Walk scans the tree under root with an explicit worklist instead of
// recursion, so traversal depth is bounded by memory rather than stack.
// visit is called once per regular file and returns false to stop the walk;
// onErr is called for filesystem failures, which do not stop the walk.
// Symlinked directories are never followed (a link to an ancestor would loop
// the worklist forever); a link to a regular file is still uploaded under the
// link's key. Other non-regular entries are skipped.
func Walk(root string, visit func(Task) bool, onErr func(*FileError)) {
	dirs := []string{root}
	for len(dirs) > 0 {
		dir := dirs[len(dirs)-1]
		dirs = dirs[:len(dirs)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			onErr(&FileError{Path: dir, Err: err})
			continue
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			// ReadDir entries have lstat semantics, so a dir symlink is not
			// a directory here and never enters the worklist.
			if e.IsDir() {
				dirs = append(dirs, path)
				continue
			}
			st, err := os.Stat(path)
			if err != nil {
				onErr(&FileError{Path: path, Err: err})
				continue
			}
			if !st.Mode().IsRegular() {
				continue
			}
			key, err := objectKey(root, path)
			if err != nil {
				onErr(&FileError{Path: path, Err: err})
				continue
			}
			if !visit(Task{LocalPath: path, Key: key, ContentType: contentTypeFor(path)}) {
				return
			}
		}
	}
}

// objectKey is the path relative to root with forward-slash separators and no
// leading separator.
func objectKey(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(filepath.ToSlash(rel), "/"), nil
}

// webTypes pins the types of core web assets so results do not depend on the
// host's mime registry.
var webTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "text/javascript; charset=utf-8",
	".mjs":   "text/javascript; charset=utf-8",
	".json":  "application/json",
	".xml":   "application/xml",
	".txt":   "text/plain; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".wasm":  "application/wasm",
	".map":   "application/json",
	".pdf":   "application/pdf",
}

func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := webTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
