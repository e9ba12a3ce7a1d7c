package web

import (
	"io/ioutil"
	"net/http"
	"path/filepath"

	"github.com/russross/blackfriday/v2"
)

// getRatingSystemDoc serves the rating system explainer as HTML, rendered
// from the markdown shipped in the resources directory.
func (s *Server) getRatingSystemDoc(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.resourcesDir, "docs", "rating-system.md")

	markdown, err := ioutil.ReadFile(path)
	if err != nil {
		s.error(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(blackfriday.Run(markdown)); err != nil {
		s.error(w, r, err, http.StatusInternalServerError)
	}
}
