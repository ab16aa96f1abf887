package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/geotrack/internal/database"
	"github.com/thereayou/geotrack/internal/handlers"
	"github.com/thereayou/geotrack/internal/rooms"
	"github.com/thereayou/geotrack/internal/services"
	"github.com/thereayou/geotrack/internal/storage"
	ws "github.com/thereayou/geotrack/internal/websocket"
)

type Server struct {
	Router     *gin.Engine
	Hub        *ws.Hub
	Controller *handlers.RoomController

	fileStore *storage.FileStore
}

// New wires the whole process: env config, the chosen persistence backend,
// the in-memory room state and the HTTP/websocket surface.
func New() (*Server, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Info().Msg(".env not found, using environment variables")
		}
	}

	registry := rooms.NewRegistry()
	history := rooms.NewHistory()
	sessions := rooms.NewSessions()
	hub := ws.NewHub()

	s := &Server{Hub: hub}

	persister, reader, err := s.buildPersistence()
	if err != nil {
		return nil, err
	}

	s.Controller = handlers.NewRoomController(registry, history, sessions, hub, persister)
	wsHandler := handlers.NewWebSocketHandler(hub, s.Controller, sessions)
	roomHandler := handlers.NewRoomHandler(registry, history, reader)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	APIEndpoints(router, wsHandler, roomHandler)
	s.Router = router

	return s, nil
}

// buildPersistence picks the external history backend from PERSIST_BACKEND.
// Every backend is best effort; "none" keeps the server purely in-memory.
func (s *Server) buildPersistence() (services.LocationPersister, services.HistoryReader, error) {
	backend := os.Getenv("PERSIST_BACKEND")

	switch backend {
	case "", "none":
		log.Warn().Msg("no persistence backend configured, history is in-memory only")
		return nil, nil, nil

	case "postgres":
		db := &database.Database{}
		if err := db.Connect(); err != nil {
			return nil, nil, err
		}
		log.Info().Msg("persisting history to postgres")
		return db, db, nil

	case "redis":
		opts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
		if err != nil {
			return nil, nil, errors.New("invalid REDIS_URL")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, err
		}

		ttl := time.Duration(0)
		if raw := os.Getenv("HISTORY_TTL"); raw != "" {
			ttl, err = time.ParseDuration(raw)
			if err != nil {
				return nil, nil, errors.New("invalid HISTORY_TTL")
			}
		}
		store := storage.NewRedisStore(client, ttl)
		log.Info().Dur("ttl", ttl).Msg("persisting history to redis")
		return store, store, nil

	case "file":
		path := os.Getenv("HISTORY_FILE")
		if path == "" {
			path = "history.jsonl"
		}
		store, err := storage.OpenFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		s.fileStore = store
		log.Info().Str("path", path).Msg("persisting history to file")
		return store, nil, nil

	default:
		return nil, nil, errors.New("unknown PERSIST_BACKEND: " + backend)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go s.Hub.Run()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.Hub.Stop()
	if s.fileStore != nil {
		if err := s.fileStore.Close(); err != nil {
			log.Warn().Err(err).Msg("close history file")
		}
	}

	log.Info().Msg("server exited gracefully")
	return nil
}
