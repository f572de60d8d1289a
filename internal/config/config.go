// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds every configuration parameter of the application.
type Config struct {
	DatabaseURL string
	AppEnv      string
	Port        string

	JWTSecret          string
	JWTExpiration      time.Duration
	DeepgramAPIKey     string
	DeepgramURL        string
	OpenAIAPIKey       string
	RedisAddr          string
	RedisPassword      string
	StreamChunkDelay   time.Duration
	TranscribeTimeout  time.Duration
	RelayChunkTimeout  time.Duration
	MaxAudioUploadSize int64
}

// LoadConfig reads the configuration from environment variables. Missing
// optional values produce a warning and a default; the server refuses to
// start only without DATABASE_URL.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AppEnv:         os.Getenv("ENV"),
		Port:           os.Getenv("PORT"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		DeepgramAPIKey: os.Getenv("DEEPGRAM_API"),
		DeepgramURL:    os.Getenv("DEEPGRAM_URL"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DeepgramURL == "" {
		cfg.DeepgramURL = "https://api.deepgram.com/v1/listen"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("SECRET_KEY")
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET is not set, using an insecure development secret.")
		cfg.JWTSecret = "dev-jwt-secret"
	}

	cfg.JWTExpiration = durationEnv("JWT_EXPIRATION_HOURS", 24) * time.Hour
	cfg.StreamChunkDelay = time.Duration(intEnv("STREAM_CHUNK_DELAY_MS", 50)) * time.Millisecond
	cfg.TranscribeTimeout = durationEnv("TRANSCRIBE_TIMEOUT_SECONDS", 30) * time.Second
	cfg.RelayChunkTimeout = durationEnv("RELAY_CHUNK_TIMEOUT_SECONDS", 5) * time.Second
	cfg.MaxAudioUploadSize = int64(intEnv("MAX_AUDIO_UPLOAD_MB", 16)) << 20

	if cfg.DatabaseURL == "" {
		log.Println("Critical: DATABASE_URL is not set.")
	}
	if cfg.DeepgramAPIKey == "" {
		log.Println("Warning: DEEPGRAM_API is not set. Transcription endpoints will not work.")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set. Speech synthesis will not work.")
	}
	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR is not set, message caching disabled.")
	}

	log.Println("Configuration loaded.")
	return cfg, nil
}

func intEnv(name string, def int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: could not parse %s (%q): %v. Using default %d.", name, raw, err, def)
		return def
	}
	return v
}

func durationEnv(name string, def int) time.Duration {
	return time.Duration(intEnv(name, def))
}
