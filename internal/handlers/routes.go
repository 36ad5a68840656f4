package handlers

import (
	"net/http"

	"github.com/clowes/twin/internal/middleware"
	"github.com/clowes/twin/internal/services"
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, services *services.Services) {
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit("global"))

	router.HandleFunc("/health", HandleHealth).Methods("GET")

	router.HandleFunc("/avatar.png", func(w http.ResponseWriter, r *http.Request) {
		HandleAvatar(services.GetTwinConfig().AvatarFile, w, r)
	}).Methods("GET", "HEAD")

	router.Handle("/chat", middleware.RateLimit("chat")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleChat(services.GetChatService(), services.GetSessionService(), w, r)
	}))).Methods("POST", "OPTIONS")
}
