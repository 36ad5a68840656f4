package handlers

import (
	"net/http"
	"os"

	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/pkg/httpext"
)

// HandleAvatar serves the avatar image for GET and HEAD. The widget only
// looks at the status of the HEAD request.
func HandleAvatar(path string, w http.ResponseWriter, r *http.Request) {
	info, err := os.Stat(path)
	if path == "" || err != nil || info.IsDir() {
		logger.Debug(logger.HANDLER, "Avatar not available at %q", path)
		httpext.JsonError(w, "Avatar not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, path)
}
