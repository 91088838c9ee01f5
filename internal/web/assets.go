package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

//go:embed all:static
var staticFiles embed.FS

// assetHandler serves files from dir when they exist there and from the
// embedded assets otherwise.
type assetHandler struct {
	dir      http.FileSystem
	embedded http.Handler
	disk     http.Handler
}

func newAssetHandler(dir string) (http.Handler, error) {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("embedded assets: %w", err)
	}
	h := &assetHandler{embedded: http.FileServer(http.FS(sub))}
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("assets dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("assets dir %s is not a directory", dir)
		}
		h.dir = http.Dir(dir)
		h.disk = http.FileServer(h.dir)
	}
	return h, nil
}

func (h *assetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.dir != nil && h.onDisk(r.URL.Path) {
		h.disk.ServeHTTP(w, r)
		return
	}
	h.embedded.ServeHTTP(w, r)
}

func (h *assetHandler) onDisk(name string) bool {
	name = path.Clean("/" + strings.TrimPrefix(name, "/"))
	f, err := h.dir.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	return err == nil && !info.IsDir()
}
