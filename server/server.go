package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teneola/staffx/config"
	"github.com/teneola/staffx/db"
	"github.com/teneola/staffx/services"
	"github.com/teneola/staffx/ws"
)

type Server struct {
	Config            *config.Config
	UserRepository    db.UserRepository
	MessageRepository db.MessageRepository
	UserService       services.UserService
	ChatService       services.ChatService
	Hub               *ws.Hub
	DB                db.GormDB
}

// Start serves the API until SIGINT/SIGTERM, then drains in-flight requests.
// Open websockets are closed by the server shutdown; each connection's
// deferred unregister cleans up its presence entry.
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("server started on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server exited")
}
