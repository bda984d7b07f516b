package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultClientRoleName       = "Үйлчлүүлэгч"
	DefaultClientRoleFallbackID = "4f72457e-7770-4d4f-bdb4-16a00ea6feb6"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string

	Directus DirectusConfig
	Sheets   SheetsConfig
	Sync     SyncConfig
	Mail     MailConfig

	DatabaseURL     string
	RabbitMQURL     string
	ContentCacheTTL time.Duration
}

type DirectusConfig struct {
	URL   string
	Token string
}

type SheetsConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	SheetID             string
}

type SyncConfig struct {
	Token                string
	ClientRoleName       string
	ClientRoleFallbackID string
	ClaimTTL             time.Duration
	// 0 desliga o sync agendado
	Interval time.Duration
}

type MailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	StaffEmail string
}

// Load lê o .env (se existir) e depois o ambiente.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		Directus: DirectusConfig{
			URL:   strings.TrimRight(getEnv("DIRECTUS_URL", "http://localhost:8055"), "/"),
			Token: os.Getenv("DIRECTUS_TOKEN"),
		},
		Sheets: SheetsConfig{
			ServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
			// a chave chega com "\n" literal quando vem de painel de deploy
			PrivateKey: strings.ReplaceAll(os.Getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
			SheetID:    os.Getenv("GOOGLE_SHEET_ID"),
		},
		Sync: SyncConfig{
			Token:                os.Getenv("SYNC_TOKEN"),
			ClientRoleName:       getEnv("CLIENT_ROLE_NAME", DefaultClientRoleName),
			ClientRoleFallbackID: getEnv("CLIENT_ROLE_FALLBACK_ID", DefaultClientRoleFallbackID),
			ClaimTTL:             getDuration("SYNC_CLAIM_TTL", 10*time.Minute),
			Interval:             getDuration("SYNC_INTERVAL", 0),
		},
		Mail: MailConfig{
			Host:       os.Getenv("MAIL_HOST"),
			Port:       getInt("MAIL_PORT", 587),
			User:       os.Getenv("MAIL_USER"),
			Password:   os.Getenv("MAIL_PASS"),
			From:       getEnv("MAIL_FROM", "no-reply@nickppf.mn"),
			StaffEmail: os.Getenv("STAFF_EMAIL"),
		},
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		ContentCacheTTL: getDuration("CONTENT_CACHE_TTL", 60*time.Second),
	}
}

// Missing devolve as variáveis obrigatórias que não foram definidas.
func (c SheetsConfig) Missing() []string {
	var missing []string
	if c.ServiceAccountEmail == "" {
		missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}
	if c.SheetID == "" {
		missing = append(missing, "GOOGLE_SHEET_ID")
	}
	return missing
}

func (c DirectusConfig) Missing() []string {
	var missing []string
	if c.URL == "" {
		missing = append(missing, "DIRECTUS_URL")
	}
	if c.Token == "" {
		missing = append(missing, "DIRECTUS_TOKEN")
	}
	return missing
}

func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.StaffEmail != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
