package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/application/services"
	"github.com/Labib591/zyra/infrastructure/config"
	"github.com/Labib591/zyra/infrastructure/llm"
	"github.com/Labib591/zyra/infrastructure/messaging"
	"github.com/Labib591/zyra/infrastructure/messaging/eventbridge"
	"github.com/Labib591/zyra/infrastructure/observability"
	"github.com/Labib591/zyra/infrastructure/pdftext"
	"github.com/Labib591/zyra/infrastructure/persistence/dynamodb"
	"github.com/Labib591/zyra/infrastructure/persistence/memory"
	"github.com/Labib591/zyra/infrastructure/persistence/postgres"
	"github.com/Labib591/zyra/infrastructure/storage/cloudinary"
	"github.com/Labib591/zyra/infrastructure/storage/gcs"
	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

const devJWTSecret = "zyra-development-secret"

// Repositories groups the persistence ports of one storage backend
type Repositories struct {
	Users    ports.UserRepository
	Canvases ports.CanvasRepository
	Notes    ports.NoteRepository
	Messages ports.MessageRepository
	PDFs     ports.PDFRepository
}

// ProvideLogLevel creates the level shared by the logger and the config watcher
func ProvideLogLevel(cfg *config.Config) zap.AtomicLevel {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}
	return level
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", "zyra"), zap.String("environment", cfg.Environment)), nil
}

// ProvideConfigWatcher reloads the YAML overlay and applies log level changes
func ProvideConfigWatcher(cfg *config.Config, level zap.AtomicLevel, logger *zap.Logger) (*config.Watcher, func(), error) {
	watcher, err := config.NewWatcher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	watcher.OnChange(func(next *config.Config) {
		if err := level.UnmarshalText([]byte(next.LogLevel)); err != nil {
			logger.Warn("Ignoring invalid log level", zap.String("log_level", next.LogLevel))
			return
		}
		logger.Info("Log level changed", zap.String("log_level", next.LogLevel))
	})
	return watcher, watcher.Stop, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideRepositories opens the configured storage backend
func ProvideRepositories(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (*Repositories, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageDynamoDB:
		table := dynamodb.NewTable(awsdynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, cfg.IndexName, logger)
		logger.Info("Using DynamoDB storage", zap.String("table", cfg.DynamoDBTable))
		return &Repositories{
			Users:    table.Users(),
			Canvases: table.Canvases(),
			Notes:    table.Notes(),
			Messages: table.Messages(),
			PDFs:     table.PDFs(),
		}, func() {}, nil

	case config.StoragePostgres:
		db, err := postgres.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		store := postgres.NewStore(db, logger)
		return &Repositories{
			Users:    store.Users(),
			Canvases: store.Canvases(),
			Notes:    store.Notes(),
			Messages: store.Messages(),
			PDFs:     store.PDFs(),
		}, cleanup, nil

	default:
		logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &Repositories{
			Users:    store.Users(),
			Canvases: store.Canvases(),
			Notes:    store.Notes(),
			Messages: store.Messages(),
			PDFs:     store.PDFs(),
		}, func() {}, nil
	}
}

// ProvideObjectStore creates the remote store for uploaded PDFs
func ProvideObjectStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.ObjectStore, func(), error) {
	switch cfg.ObjectStore {
	case config.ObjectStoreGCS:
		store, err := gcs.NewStore(ctx, cfg.GCSBucket, cfg.PDFFolder, "", logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		if cfg.CloudinaryURL == "" {
			logger.Warn("CLOUDINARY_URL is not set; PDF uploads are disabled")
			return unconfiguredStore{}, func() {}, nil
		}
		store, err := cloudinary.NewFromURL(cfg.CloudinaryURL, cfg.PDFFolder, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

// unconfiguredStore rejects uploads when no object store credentials exist
type unconfiguredStore struct{}

func (unconfiguredStore) Upload(ctx context.Context, req ports.UploadRequest) (*ports.StoredObject, error) {
	return nil, pkgerrors.NewUpstreamError("object-store", errors.New("object store is not configured"))
}

func (unconfiguredStore) Delete(ctx context.Context, key string) error {
	return nil
}

// ProvideTextExtractor creates the PDF text extractor
func ProvideTextExtractor() ports.TextExtractor {
	return pdftext.NewExtractor(0)
}

// ProvideChatProvider creates the Gemini provider
func ProvideChatProvider(cfg *config.Config, logger *zap.Logger) ports.ChatProvider {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; chat requests will fail upstream")
	}
	return llm.NewGeminiProvider(llm.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.ChatModel,
		Timeout: cfg.ChatTimeout,
	}, logger)
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("zyra")
}

// ProvideMetrics fans business metrics out to Prometheus and, in Lambda, to
// CloudWatch
func ProvideMetrics(cfg *config.Config, collector *observability.Collector, awsCfg aws.Config, logger *zap.Logger) ports.Metrics {
	sinks := observability.Fanout{collector}
	if cfg.IsLambda {
		namespace := fmt.Sprintf("Zyra/%s", cfg.Environment)
		sinks = append(sinks, observability.NewCloudWatchMetrics(namespace, awscloudwatch.NewFromConfig(awsCfg), logger))
	}
	return sinks
}

// ProvideEventPublisher publishes to EventBridge in deployed environments and
// to the log everywhere else
func ProvideEventPublisher(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName != "" && (cfg.IsLambda || cfg.IsProduction()) {
		return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger)
	}
	return messaging.NewLogPublisher(logger)
}

// ProvideSessionManager creates the session token manager
func ProvideSessionManager(cfg *config.Config, logger *zap.Logger) (*auth.SessionManager, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET is not set; using the development secret")
		secret = devJWTSecret
	}
	return auth.NewSessionManager(auth.SessionConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		TTL:       cfg.SessionTTL,
	})
}

// ProvideGoogleOAuth returns nil when Google sign-in is not configured
func ProvideGoogleOAuth(cfg *config.Config) *auth.GoogleOAuth {
	return auth.NewGoogleOAuth(auth.GoogleOAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
}

// ProvideRateLimiter shares limits through Redis when configured
func ProvideRateLimiter(cfg *config.Config, logger *zap.Logger) (auth.RateLimiter, func()) {
	if cfg.RedisAddr == "" {
		return auth.NewTokenBucketLimiter(cfg.RateLimitRPM), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	logger.Info("Using Redis rate limiter", zap.String("addr", cfg.RedisAddr))
	return auth.NewRedisRateLimiter(client, cfg.RateLimitRPM, time.Minute, "zyra:ratelimit"), func() { client.Close() }
}

// ProvideTracerProvider starts OpenTelemetry tracing when enabled
func ProvideTracerProvider(cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: "zyra-api",
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRate:  cfg.TraceSampleRate,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideOwnershipGuard creates the canvas ownership guard
func ProvideOwnershipGuard(repos *Repositories) *services.OwnershipGuard {
	return services.NewOwnershipGuard(repos.Canvases)
}

// ProvideChatService creates the chat service
func ProvideChatService(cfg *config.Config, provider ports.ChatProvider, metrics ports.Metrics, logger *zap.Logger) *services.ChatService {
	return services.NewChatService(provider, metrics, logger, cfg.MaxOutputTokens)
}

// ProvideAuthService creates the sign-in service
func ProvideAuthService(repos *Repositories, sessions *auth.SessionManager, publisher ports.EventPublisher, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(repos.Users, sessions, publisher, logger)
}

// ProvideErrorHandler creates the HTTP error responder
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}
