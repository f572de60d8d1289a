package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/meer-matthew/STT-Proto/internal/api"
	"github.com/meer-matthew/STT-Proto/internal/cache"
	"github.com/meer-matthew/STT-Proto/internal/config"
	"github.com/meer-matthew/STT-Proto/internal/db"
	"github.com/meer-matthew/STT-Proto/internal/speech"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, relying on the environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Fatal: could not load configuration: %v", err)
	}

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Fatal: could not initialize database: %v", err)
	}
	defer db.CloseDB()

	cache.Init(cfg.RedisAddr, cfg.RedisPassword)
	defer cache.Close()

	transcriber := speech.NewDeepgramClient(cfg.DeepgramAPIKey, cfg.DeepgramURL)
	if !transcriber.Configured() {
		log.Println("Warning: DEEPGRAM_API is not set, transcription endpoints will return errors")
	}
	synthesizer := speech.NewSynthesizer(cfg.OpenAIAPIKey)
	if !synthesizer.Configured() {
		log.Println("Warning: OPENAI_API_KEY is not set, synthesis endpoints will return errors")
	}

	a := api.New(cfg, transcriber, synthesizer)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	a.SetupRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Printf("Starting server on port %s (env: %s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Fatal: server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: server did not stop cleanly: %v", err)
	}
	a.Shutdown()
}
