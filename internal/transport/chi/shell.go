package chi

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

const indexFile = "index.html"

// AppShell serves the browser application. Known files are served as they
// are; every other path gets index.html so client-side routing can take over.
// Without a UI directory it answers {"status":"ok"}.
type AppShell struct {
	fsys  fs.FS
	files http.Handler
}

// NewAppShell creates an AppShell over dir. An empty dir disables static serving.
func NewAppShell(dir string) *AppShell {
	if dir == "" {
		return &AppShell{}
	}
	return NewAppShellFS(os.DirFS(dir))
}

// NewAppShellFS creates an AppShell over fsys.
func NewAppShellFS(fsys fs.FS) *AppShell {
	return &AppShell{fsys: fsys, files: http.FileServerFS(fsys)}
}

// IsAsset reports whether urlPath names a regular file other than index.html.
func (a *AppShell) IsAsset(urlPath string) bool {
	if a.fsys == nil {
		return false
	}
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" || name == indexFile {
		return false
	}
	info, err := fs.Stat(a.fsys, name)
	return err == nil && info.Mode().IsRegular()
}

func (a *AppShell) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.fsys == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if a.IsAsset(r.URL.Path) {
		a.files.ServeHTTP(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFileFS(w, r, a.fsys, indexFile)
}
