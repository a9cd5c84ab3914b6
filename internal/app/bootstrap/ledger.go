package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/wolfman30/consultabot/internal/appointments"
	"github.com/wolfman30/consultabot/internal/audit"
	appconfig "github.com/wolfman30/consultabot/internal/config"
	"github.com/wolfman30/consultabot/pkg/logging"
)

// BuildLedger picks the appointment ledger named by LEDGER_BACKEND. The
// dynamodb backend needs dynamoClient; other backends ignore it. The returned
// close func is never nil.
func BuildLedger(ctx context.Context, cfg *appconfig.Config, dynamoClient *dynamodb.Client, logger *logging.Logger) (appointments.Ledger, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	switch backend(cfg.LedgerBackend) {
	case BackendMemory:
		logger.Info("using in-memory appointment ledger")
		return appointments.NewMemoryLedger(), func() {}, nil
	case BackendPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, nil, fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres ledger")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
		}
		logger.Info("using postgres appointment ledger")
		return appointments.NewPostgresLedger(pool), pool.Close, nil
	case BackendDynamoDB:
		if dynamoClient == nil {
			return nil, nil, fmt.Errorf("bootstrap: dynamodb client is required for the dynamodb ledger")
		}
		if strings.TrimSpace(cfg.AppointmentsTable) == "" {
			return nil, nil, fmt.Errorf("bootstrap: APPOINTMENTS_TABLE is required for the dynamodb ledger")
		}
		logger.Info("using dynamodb appointment ledger", "table", cfg.AppointmentsTable)
		return appointments.NewDynamoLedger(dynamoClient, cfg.AppointmentsTable), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown ledger backend %q", cfg.LedgerBackend)
	}
}

// BuildAuditService opens the audit database when AUDIT_ENABLED is set.
// It returns a nil service (a no-op logger) when auditing is off.
func BuildAuditService(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*audit.Service, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if !cfg.AuditEnabled {
		return nil, func() {}, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil, fmt.Errorf("bootstrap: DATABASE_URL is required when AUDIT_ENABLED is set")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: open audit db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("bootstrap: ping audit db: %w", err)
	}
	logger.Info("audit trail enabled")
	return audit.NewService(db), func() { _ = db.Close() }, nil
}
