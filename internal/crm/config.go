package crm

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all repnote configuration. Built once at startup from the
// environment and immutable for the process lifetime.
type Config struct {
	LLMURL     string
	LLMModel   string
	LLMAPIKey  string
	LLMRetries int

	MaxToolTurns int
	SystemPrompt string // empty means the built-in instruction

	HTTPPort    string
	CORSOrigins []string

	DBPath      string
	LexiconPath string

	TelegramToken   string
	TelegramAllowed []string
}

// Init loads config from environment variables.
func Init() Config {
	return Config{
		LLMURL:          env("REPNOTE_LLM_URL", "https://api.groq.com/openai/v1"),
		LLMModel:        env("REPNOTE_LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMAPIKey:       env("REPNOTE_LLM_API_KEY", ""),
		LLMRetries:      envInt("REPNOTE_LLM_RETRIES", 2),
		MaxToolTurns:    envInt("REPNOTE_MAX_TOOL_TURNS", 10),
		SystemPrompt:    env("REPNOTE_SYSTEM_PROMPT", ""),
		HTTPPort:        env("REPNOTE_HTTP_PORT", "8080"),
		CORSOrigins:     envList("REPNOTE_CORS_ORIGINS", "http://localhost:3000"),
		DBPath:          env("REPNOTE_DB_PATH", "repnote.db"),
		LexiconPath:     env("REPNOTE_LEXICON", ""),
		TelegramToken:   env("REPNOTE_TELEGRAM_TOKEN", ""),
		TelegramAllowed: envList("REPNOTE_TELEGRAM_ALLOWED", ""),
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envList(key, def string) []string {
	v := env(key, def)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
