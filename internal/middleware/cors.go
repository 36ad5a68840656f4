package middleware

import (
	"net/http"

	"github.com/clowes/twin/internal/config"
	gorillahandlers "github.com/gorilla/handlers"
)

// CORS lets the browser widget call the service from the configured origins
// and answers preflight requests itself.
func CORS() func(http.Handler) http.Handler {
	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(config.GetAllowedOrigins()),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodPost}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
		gorillahandlers.OptionStatusCode(http.StatusNoContent),
	)
}
