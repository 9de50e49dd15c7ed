package environments

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Twilio    TwilioConfig
	Concierge ConciergeConfig
	Delivery  DeliveryConfig
	Alert     AlertConfig
	Auth      AuthConfig
	Sentry    SentryConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host          string
	Port          string
	Password      string
	DB            int
	RestaurantTTL time.Duration
	DeliveryTTL   time.Duration
}

type TwilioConfig struct {
	AccountSID          string
	AuthToken           string
	FromNumber          string
	MessagingServiceSID string
	BaseURL             string
	Timeout             time.Duration
	RequestsPerSecond   float64
	ValidateSignature   bool
	// PublicBaseURL is the externally visible origin Twilio signs requests
	// against, e.g. https://concierge.example.com.
	PublicBaseURL string
}

type ConciergeConfig struct {
	// Greetings is a comma separated token:language table, e.g. "ciao:it,hello:en".
	Greetings         string
	DefaultDelayHours float64
	TimeZone          string
	QuietStartHour    int
	QuietEndHour      int
	QuietResumeHour   int
	LookupTimeout     time.Duration
	SendTimeout       time.Duration
}

type SchedulingMode string

const (
	SchedulingNative SchedulingMode = "native"
	SchedulingOutbox SchedulingMode = "outbox"
)

type DeliveryConfig struct {
	SchedulingMode   SchedulingMode
	BatchSize        int
	DispatchInterval time.Duration
	MaxBodyLength    int
	// ClaimLease pushes a claimed outbox row's send time forward so other
	// dispatchers skip it while it is being sent.
	ClaimLease time.Duration
	// AutoStartDispatcher starts the outbox dispatcher with the server.
	AutoStartDispatcher bool
}

type AlertConfig struct {
	WebhookURL string
	// IterationCount is the number of consecutive all-failed dispatch runs
	// that trigger an alert. Zero disables alerting.
	IterationCount int
}

type AuthConfig struct {
	AdminAPIKey string
}

type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	SampleRate  float64
}

type LogConfig struct {
	Level string
}

// Load reads the configuration from the environment, loading a .env file
// first when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "concierge"),
			Password: GetEnv("DB_PASSWORD", "concierge123"),
			DBName:   GetEnv("DB_NAME", "restaurant_concierge"),
		},
		Redis: RedisConfig{
			Host:          GetEnv("REDIS_HOST", "localhost"),
			Port:          GetEnv("REDIS_PORT", "6379"),
			Password:      GetEnv("REDIS_PASSWORD", ""),
			DB:            GetEnvAsInt("REDIS_DB", 0),
			RestaurantTTL: GetEnvAsDuration("RESTAURANT_CACHE_TTL", 10*time.Minute),
			DeliveryTTL:   GetEnvAsDuration("DELIVERY_CACHE_TTL", 24*time.Hour),
		},
		Twilio: TwilioConfig{
			AccountSID:          GetEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:           GetEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber:          GetEnv("TWILIO_WHATSAPP_NUMBER", ""),
			MessagingServiceSID: GetEnv("TWILIO_MESSAGING_SERVICE_SID", ""),
			BaseURL:             GetEnv("TWILIO_API_BASE_URL", "https://api.twilio.com"),
			Timeout:             time.Duration(GetEnvAsInt("TWILIO_TIMEOUT_SECONDS", 5)) * time.Second,
			RequestsPerSecond:   GetEnvAsFloat("TWILIO_REQUESTS_PER_SECOND", 10),
			ValidateSignature:   GetEnvAsBool("TWILIO_VALIDATE_SIGNATURE", true),
			PublicBaseURL:       GetEnv("PUBLIC_BASE_URL", ""),
		},
		Concierge: ConciergeConfig{
			Greetings:         GetEnv("CONCIERGE_GREETINGS", "ciao:it,hello:en,hallo:de,bonjour:fr,hola:es"),
			DefaultDelayHours: GetEnvAsFloat("CONCIERGE_DEFAULT_DELAY_HOURS", 2),
			TimeZone:          GetEnv("CONCIERGE_TIME_ZONE", "Europe/Rome"),
			QuietStartHour:    GetEnvAsInt("CONCIERGE_QUIET_START_HOUR", 0),
			QuietEndHour:      GetEnvAsInt("CONCIERGE_QUIET_END_HOUR", 8),
			QuietResumeHour:   GetEnvAsInt("CONCIERGE_QUIET_RESUME_HOUR", 10),
			LookupTimeout:     GetEnvAsDuration("CONCIERGE_LOOKUP_TIMEOUT", 3*time.Second),
			SendTimeout:       GetEnvAsDuration("CONCIERGE_SEND_TIMEOUT", 5*time.Second),
		},
		Delivery: DeliveryConfig{
			SchedulingMode:   SchedulingMode(GetEnv("DELIVERY_SCHEDULING_MODE", string(SchedulingNative))),
			BatchSize:        GetEnvAsInt("DELIVERY_BATCH_SIZE", 20),
			DispatchInterval: GetEnvAsDuration("DELIVERY_DISPATCH_INTERVAL", time.Minute),
			MaxBodyLength:    GetEnvAsInt("DELIVERY_MAX_BODY_LENGTH", 1600),
			ClaimLease:       GetEnvAsDuration("DELIVERY_CLAIM_LEASE", 5*time.Minute),

			AutoStartDispatcher: GetEnvAsBool("DELIVERY_AUTO_START_DISPATCHER", true),
		},
		Alert: AlertConfig{
			WebhookURL:     GetEnv("ALERT_WEBHOOK_URL", ""),
			IterationCount: GetEnvAsInt("ALERT_ITERATION_COUNT", 0),
		},
		Auth: AuthConfig{
			AdminAPIKey: GetEnv("ADMIN_API_KEY", ""),
		},
		Sentry: SentryConfig{
			DSN:         GetEnv("SENTRY_DSN", ""),
			Environment: GetEnv("SENTRY_ENVIRONMENT", "development"),
			Release:     GetEnv("SENTRY_RELEASE", ""),
			SampleRate:  GetEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
		},
		Log: LogConfig{
			Level: GetEnv("LOG_LEVEL", "info"),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
