package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageDynamoDB = "dynamodb"
	StoragePostgres = "postgres"
)

// Object store backends
const (
	ObjectStoreCloudinary = "cloudinary"
	ObjectStoreGCS        = "gcs"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"server_address"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	FrontendURL     string        `yaml:"frontend_url"`

	// Persistence
	StorageBackend string `yaml:"storage_backend"`
	DatabaseURL    string `yaml:"-"`

	// AWS configuration
	AWSRegion     string `yaml:"aws_region"`
	DynamoDBTable string `yaml:"dynamodb_table"`
	IndexName     string `yaml:"index_name"` // GSI1 - owner and email lookups
	EventBusName  string `yaml:"event_bus_name"`

	// Lambda configuration
	IsLambda           bool   `yaml:"-"`
	LambdaFunctionName string `yaml:"-"`

	// Object storage
	ObjectStore   string `yaml:"object_store"`
	CloudinaryURL string `yaml:"-"`
	PDFFolder     string `yaml:"pdf_folder"`
	GCSBucket     string `yaml:"gcs_bucket"`

	// Generative AI
	GeminiAPIKey    string        `yaml:"-"`
	GeminiBaseURL   string        `yaml:"gemini_base_url"`
	ChatModel       string        `yaml:"chat_model"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	ChatTimeout     time.Duration `yaml:"chat_timeout"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Authentication
	JWTSecret          string        `yaml:"-"`
	JWTIssuer          string        `yaml:"jwt_issuer"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	CookieSecure       bool          `yaml:"cookie_secure"`
	GoogleClientID     string        `yaml:"-"`
	GoogleClientSecret string        `yaml:"-"`
	GoogleRedirectURL  string        `yaml:"google_redirect_url"`

	// Rate limiting
	RateLimitRPM  int    `yaml:"rate_limit_rpm"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"-"`
	RedisDB       int    `yaml:"redis_db"`

	// Observability
	EnableMetrics   bool    `yaml:"enable_metrics"`
	EnableTracing   bool    `yaml:"enable_tracing"`
	OTLPEndpoint    string  `yaml:"otlp_endpoint"`
	TraceSampleRate float64 `yaml:"trace_sample_rate"`
	EnableCORS      bool    `yaml:"enable_cors"`

	// ConfigFile is the optional YAML overlay, watched for log level changes
	ConfigFile string `yaml:"-"`
}

// Defaults returns the configuration used when nothing overrides it
func Defaults() *Config {
	return &Config{
		ServerAddress:   ":8080",
		Environment:     "development",
		ShutdownTimeout: 15 * time.Second,
		AllowedOrigins:  []string{"http://localhost:3000"},
		FrontendURL:     "http://localhost:3000",
		StorageBackend:  StorageMemory,
		AWSRegion:       "us-east-1",
		DynamoDBTable:   "zyra",
		IndexName:       "GSI1",
		EventBusName:    "zyra-events",
		ObjectStore:     ObjectStoreCloudinary,
		PDFFolder:       "zyra-pdfs",
		GeminiBaseURL:   "https://generativelanguage.googleapis.com/v1beta/openai/",
		ChatModel:       "gemini-2.5-flash",
		MaxOutputTokens: 500,
		ChatTimeout:     60 * time.Second,
		LogLevel:        "info",
		JWTIssuer:       "zyra",
		SessionTTL:      30 * 24 * time.Hour,
		RateLimitRPM:    120,
		OTLPEndpoint:    "localhost:4317",
		TraceSampleRate: 0.1,
		EnableMetrics:   true,
		EnableCORS:      true,
	}
}

// LoadConfig loads configuration from, in increasing priority: defaults, the
// YAML file named by CONFIG_FILE, a .env file and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Defaults()
	cfg.ConfigFile = os.Getenv("CONFIG_FILE")
	if cfg.ConfigFile != "" {
		if err := cfg.LoadFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// LoadFile overlays the keys present in a YAML file
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.AllowedOrigins = getEnvList("ALLOWED_ORIGINS", c.AllowedOrigins)
	c.FrontendURL = getEnv("FRONTEND_URL", c.FrontendURL)

	c.StorageBackend = getEnv("STORAGE_BACKEND", c.StorageBackend)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))
	c.IndexName = getEnv("INDEX_NAME", c.IndexName)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", c.LambdaFunctionName)
	c.IsLambda = getEnvBool("IS_LAMBDA", c.LambdaFunctionName != "")

	c.ObjectStore = getEnv("OBJECT_STORE", c.ObjectStore)
	c.CloudinaryURL = getEnv("CLOUDINARY_URL", c.CloudinaryURL)
	c.PDFFolder = getEnv("PDF_FOLDER", c.PDFFolder)
	c.GCSBucket = getEnv("GCS_BUCKET", c.GCSBucket)

	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiBaseURL = getEnv("GEMINI_BASE_URL", c.GeminiBaseURL)
	c.ChatModel = getEnv("CHAT_MODEL", c.ChatModel)
	c.MaxOutputTokens = getEnvInt("MAX_OUTPUT_TOKENS", c.MaxOutputTokens)
	c.ChatTimeout = getEnvDuration("CHAT_TIMEOUT", c.ChatTimeout)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.SessionTTL = getEnvDuration("SESSION_TTL", c.SessionTTL)
	c.CookieSecure = getEnvBool("COOKIE_SECURE", c.CookieSecure || c.Environment == "production")
	c.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", c.GoogleClientID)
	c.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", c.GoogleClientSecret)
	c.GoogleRedirectURL = getEnv("GOOGLE_REDIRECT_URL", c.GoogleRedirectURL)

	c.RateLimitRPM = getEnvInt("RATE_LIMIT_RPM", c.RateLimitRPM)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.TraceSampleRate = getEnvFloat("TRACE_SAMPLE_RATE", c.TraceSampleRate)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory, StorageDynamoDB:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	switch c.ObjectStore {
	case ObjectStoreCloudinary:
	case ObjectStoreGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for the gcs object store")
		}
	default:
		return fmt.Errorf("unknown object store %q", c.ObjectStore)
	}

	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("MAX_OUTPUT_TOKENS must be positive")
	}

	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.StorageBackend == StorageMemory {
			return fmt.Errorf("the memory storage backend cannot be used in production")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList reads a comma separated list
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
