package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/consultabot/cmd/mainconfig"
	"github.com/wolfman30/consultabot/internal/api/router"
	"github.com/wolfman30/consultabot/internal/app/bootstrap"
	"github.com/wolfman30/consultabot/internal/appointments"
	"github.com/wolfman30/consultabot/internal/channels/console"
	appconfig "github.com/wolfman30/consultabot/internal/config"
	"github.com/wolfman30/consultabot/internal/conversation"
	"github.com/wolfman30/consultabot/internal/observability/metrics"
	"github.com/wolfman30/consultabot/pkg/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := appconfig.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		return 1
	}
	cfg := appconfig.Load()

	// Prompts own stdout; structured logs go to stderr.
	logger := logging.NewWithWriter(cfg.LogLevel, os.Stderr)
	logger.Info("starting consultabot",
		"env", cfg.Env,
		"session_backend", cfg.SessionBackend,
		"ledger_backend", cfg.LedgerBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	sessions, closeSessions, err := bootstrap.BuildSessionRegistry(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build session registry", "error", err)
		return 1
	}
	defer closeSessions()

	var dynamoClient *dynamodb.Client
	if strings.EqualFold(strings.TrimSpace(cfg.LedgerBackend), bootstrap.BackendDynamoDB) {
		dynamoClient, err = mainconfig.NewDynamoClient(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			return 1
		}
	}
	ledger, closeLedger, err := bootstrap.BuildLedger(ctx, cfg, dynamoClient, logger)
	if err != nil {
		logger.Error("failed to build appointment ledger", "error", err)
		return 1
	}
	defer closeLedger()
	appointmentsSvc := appointments.NewService(ledger, logger, bookingMetrics)

	auditSvc, closeAudit, err := bootstrap.BuildAuditService(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build audit trail", "error", err)
		return 1
	}
	defer closeAudit()

	components := map[string]any{"sessions": sessions, "ledger": ledger}
	var auditCounter router.AuditCounter
	if auditSvc != nil {
		components["audit"] = auditSvc
		auditCounter = auditSvc
	}
	checks := bootstrap.HealthChecks(components)

	if addr := strings.TrimSpace(cfg.MetricsAddr); addr != "" {
		srv := &http.Server{
			Addr: addr,
			Handler: router.New(&router.Config{
				Logger:         logger,
				MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
				Ledger:         appointmentsSvc,
				Audit:          auditCounter,
				Checks:         checks,
			}),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			logger.Info("ops server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("ops server forced to shutdown", "error", err)
			}
		}()
	}

	opts := []conversation.Option{
		conversation.WithLocation(cfg.Location()),
		conversation.WithProposalDays(cfg.ProposalDays),
		conversation.WithConfirmationTokens(conversation.ConfirmationTokens{Yes: cfg.ConfirmYes, No: cfg.ConfirmNo}),
		conversation.WithLogger(logger),
		conversation.WithMetrics(bookingMetrics),
	}
	if auditSvc != nil {
		opts = append(opts, conversation.WithAudit(auditSvc))
	}
	engine := conversation.NewEngine(console.New(os.Stdin, os.Stdout), sessions, appointmentsSvc, opts...)

	phone, err := engine.VerifyPhone(ctx)
	if err != nil {
		logger.Warn("conversation ended before phone verification", "error", err)
		return 1
	}
	outcome, err := engine.Run(ctx, phone)
	if err != nil {
		logger.Warn("conversation ended early", "user_id", phone, "error", err)
		return 1
	}
	if outcome.State != conversation.StateBooked {
		return 1
	}
	return 0
}
