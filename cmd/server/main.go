package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"helpdesk-backend/internal/config"
	"helpdesk-backend/internal/handlers"
	"helpdesk-backend/internal/logx"
	"helpdesk-backend/internal/metrics"
	"helpdesk-backend/internal/router"
	"helpdesk-backend/internal/services"
)

func main() {
	logx.Log.Info().Msg("🚀 Starting Helpdesk Relay...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logx.Configure(cfg.Env)
	logx.Log.Info().Str("env", cfg.Env).Msg("✓ Environment variables loaded")

	// ──── Step 2: Initialize Metrics ────
	metricsReg := prometheus.NewRegistry()
	metricsReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(metricsReg)

	// ──── Step 3: Initialize Gemini Client ────
	generator, closeGenerator, err := newGenerator(cfg)
	switch {
	case errors.Is(err, services.ErrMissingAPIKey):
		logx.Log.Error().Msg("✗ GEMINI_API_KEY secret not found!")
	case err != nil:
		logx.Log.Fatal().Err(err).Msg("✗ Gemini client initialization failed")
	default:
		defer closeGenerator()
		logx.Log.Info().Str("model", cfg.GeminiModel).Str("transport", cfg.GeminiTransport).Msg("✓ Gemini client initialized")
	}

	// ──── Step 4: Initialize Services & Handlers ────
	relayService := services.NewRelayService(generator, cfg.UpstreamTimeout)
	chatHandler := handlers.NewChatHandler(relayService)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(chatHandler, metricsReg, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logx.Log.Info().Msg("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logx.Log.Info().Msgf("✓ Helpdesk Relay ready on http://localhost:%s", cfg.Port)
	logx.Log.Info().Msgf("  API: http://localhost:%s/api/chat", cfg.Port)
	logx.Log.Info().Bool("api_key_loaded", relayService.Configured()).Msg("  API Key Loaded")
	if !relayService.Configured() {
		logx.Log.Warn().Msg("Warning: Server started without API Key. /api/chat endpoint will fail.")
	}

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logx.Log.Fatal().Err(err).Msg("Server error")
	}
}

// newGenerator builds the upstream transport selected by GEMINI_TRANSPORT.
// The returned Generator is a nil interface when err is non-nil.
func newGenerator(cfg *config.Config) (services.Generator, func(), error) {
	gemCfg := services.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	}

	switch cfg.GeminiTransport {
	case "sdk":
		svc, err := services.NewGeminiSDKService(context.Background(), gemCfg)
		if err != nil {
			return nil, nil, err
		}
		return svc, svc.Close, nil
	case "rest", "":
		svc, err := services.NewGeminiService(gemCfg, nil)
		if err != nil {
			return nil, nil, err
		}
		return svc, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown GEMINI_TRANSPORT %q (want rest or sdk)", cfg.GeminiTransport)
	}
}
