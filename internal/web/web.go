// Package web serves the embedded static assets (script, stylesheet).
package web

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"snapstream/internal/logging"

	"github.com/gorilla/mux"
)

// StaticDir is the directory inside the embedded filesystem that holds the
// assets.
const StaticDir = "static"

// staticHandler serves files from an embedded filesystem. Unlike a
// single-page app there is no index fallback: unknown paths are 404s.
type staticHandler struct {
	contentFS fs.FS
}

// ServeHTTP handles serving one asset.
func (h staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filePath := path.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if filePath == "" || filePath == "." || strings.HasPrefix(filePath, "..") {
		http.NotFound(w, r)
		return
	}

	file, err := h.contentFS.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		logging.Log.Errorf("staticHandler: error opening %s: %v", filePath, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		logging.Log.Errorf("staticHandler: error stating %s: %v", filePath, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")

	// embed.FS files implement io.ReadSeeker, but fs.File does not promise it.
	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(file)
		if err != nil {
			logging.Log.Errorf("staticHandler: error reading %s: %v", filePath, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		seeker = bytes.NewReader(data)
	}
	http.ServeContent(w, r, filePath, info.ModTime(), seeker)
}

// AddRoutes mounts the assets of content under /static/.
func AddRoutes(router *mux.Router, content fs.FS) error {
	sub, err := fs.Sub(content, StaticDir)
	if err != nil {
		return err
	}
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", staticHandler{contentFS: sub}))
	return nil
}
