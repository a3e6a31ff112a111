package config

import (
	"os"
	"time"
)

type Config struct {
	ListenAddr    string
	PublicBaseURL string
	DBPath        string
	BlobBackend   string
	BlobLocalPath string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	JWTSecret     string
	TokenTTL      time.Duration
	LogLevel      string
	LogFormat     string
	LogFile       string
	AnthropicKey  string
	SuggestModel  string
	MapboxToken   string
}

func Load() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		DBPath:        getEnv("DB_PATH", "/data/coletamap.db"),
		BlobBackend:   getEnv("BLOB_BACKEND", "local"),
		BlobLocalPath: getEnv("BLOB_LOCAL_PATH", "/data/photos"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3AccessKey:   getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogFile:       getEnv("LOG_FILE", ""),
		AnthropicKey:  getEnv("ANTHROPIC_API_KEY", ""),
		SuggestModel:  getEnv("SUGGEST_MODEL", "claude-3-5-haiku-latest"),
		MapboxToken:   getEnv("MAPBOX_TOKEN", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
