package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"MindWell/pkg/logger"
)

var (
	GeminiAPIKey string
	GeminiModel  string
	// IsGeminiEnabled toggles real Gemini calls (env IS_GEMINI_ENABLED, "1" = on)
	IsGeminiEnabled bool

	SendgridAPIKey string
	OTPFromEmail   string

	AppEnv       string
	IsProduction bool

	JWTSecret string
	Port      string
	DBPath    string

	// runtime tunables
	CompletionCacheTTLSeconds int
	CompletionCacheMaxItems   int
)

// loadAppEnv loads .env for local/staging runs only; production relies on the
// host environment.
func loadAppEnv() {
	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "production" {
		return
	}
	if err := godotenv.Load(); err != nil {
		logger.L().Debugf("[config] no .env file loaded: %v", err)
	}
}

func init() {
	loadAppEnv()

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	GeminiModel = os.Getenv("GEMINI_MODEL")
	if GeminiModel == "" {
		GeminiModel = "gemini-2.0-flash"
	}
	IsGeminiEnabled = os.Getenv("IS_GEMINI_ENABLED") == "1"

	SendgridAPIKey = os.Getenv("SENDGRID_API_KEY")
	OTPFromEmail = os.Getenv("OTP_FROM_EMAIL")
	if OTPFromEmail == "" {
		OTPFromEmail = "no-reply@mindwell.app"
	}

	AppEnv = os.Getenv("APP_ENV")
	IsProduction = AppEnv == "production"

	JWTSecret = os.Getenv("JWT_SECRET_KEY")
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8000"
	}
	DBPath = os.Getenv("DB_PATH")
	if DBPath == "" {
		DBPath = "chat_history.db"
	}

	CompletionCacheTTLSeconds = atoiOr(os.Getenv("COMPLETION_CACHE_TTL_SECONDS"), 600)
	CompletionCacheMaxItems = atoiOr(os.Getenv("COMPLETION_CACHE_MAX_ITEMS"), 500)

	if IsProduction && JWTSecret == "" {
		logger.L().Fatal("JWT_SECRET_KEY must be set in production")
	}

	logger.L().Infof("[config] AppEnv=%s IsProduction=%v", AppEnv, IsProduction)
	logger.L().Infof("[config] IsGeminiEnabled=%v GeminiAPIKeyPresent=%v GeminiModel=%s",
		IsGeminiEnabled, GeminiAPIKey != "", GeminiModel)
	logger.L().Infof("[config] CompletionCache ttl=%ds max=%d",
		CompletionCacheTTLSeconds, CompletionCacheMaxItems)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
