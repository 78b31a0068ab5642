package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/hiveboardgame/hive/apps/server/internal/auth"
	"github.com/hiveboardgame/hive/apps/server/internal/handler"
	"github.com/hiveboardgame/hive/apps/server/internal/lobby"
	"github.com/hiveboardgame/hive/apps/server/internal/session"
	"github.com/hiveboardgame/hive/apps/server/internal/store"
)

func main() {
	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth manager: %v", err)
	}
	defer authService.Close()

	gameStore, storeMode, err := store.NewFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init game store: %v", err)
	}
	defer gameStore.Close()

	h := handler.New(gameStore)
	hub := session.NewHub(h, authService)
	defer hub.Stop()

	lby := lobby.New(h)
	defer lby.Stop()

	authHTTP := auth.NewHTTPHandler(authService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/lobby", lby.ServeHTTP)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	authHTTP.RegisterRoutes(mux)

	addr := strings.TrimSpace(os.Getenv("SERVER_ADDR"))
	if addr == "" {
		addr = ":18080"
	}
	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] Store mode: %s", storeMode)
	log.Printf("[Server] Starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
