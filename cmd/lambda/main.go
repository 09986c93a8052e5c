package main

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/infrastructure/config"
	"github.com/Labib591/zyra/infrastructure/di"
	"github.com/Labib591/zyra/interfaces/http/rest"
)

// gateway serves API Gateway HTTP API (payload v2) events through the same
// chi router as the standalone server.
type gateway struct {
	proxy  *chiadapter.ChiLambdaV2
	logger *zap.Logger
	warm   atomic.Bool
}

func newGateway(ctx context.Context) (*gateway, error) {
	started := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Lambda freezes the environment instead of stopping it, so cleanup is dropped.
	container, _, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize container: %w", err)
	}

	mux, ok := rest.NewRouter(rest.DependenciesFrom(container)).Setup().(*chi.Mux)
	if !ok {
		return nil, fmt.Errorf("router is not a *chi.Mux")
	}

	container.Logger.Info("Lambda initialized",
		zap.Duration("duration", time.Since(started)),
		zap.String("storage", cfg.StorageBackend),
	)
	return &gateway{proxy: chiadapter.NewV2(mux), logger: container.Logger}, nil
}

func (g *gateway) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	start := time.Now()
	cold := !g.warm.Swap(true)

	resp, err := g.proxy.ProxyWithContextV2(ctx, req)

	g.logger.Info("Lambda request",
		zap.String("method", req.RequestContext.HTTP.Method),
		zap.String("path", req.RequestContext.HTTP.Path),
		zap.String("request_id", req.RequestContext.RequestID),
		zap.Int("status", resp.StatusCode),
		zap.Bool("cold_start", cold),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, err
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	g, err := newGateway(ctx)
	cancel()
	if err != nil {
		log.Fatalf("zyra lambda: %v", err)
	}
	lambda.Start(g.handle)
}
