package handlers

import (
	"net/http"

	"github.com/clowes/twin/pkg/httpext"
)

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
