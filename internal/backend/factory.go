package backend

import (
	"context"
	"errors"
	"fmt"

	"homebook/internal/amqp"
	"homebook/internal/ledger"
	applog "homebook/internal/log"
	"homebook/internal/sheets"
	gsheet "homebook/internal/sheets/google"
	sheetmem "homebook/internal/sheets/memory"
	"homebook/internal/storage"
	"homebook/internal/storage/memory"
)

// ErrSheetsNotConfigured is returned when a spreadsheet export is requested
// without GOOGLE_SPREADSHEET_ID.
var ErrSheetsNotConfigured = errors.New("google sheets export is not configured (set GOOGLE_SPREADSHEET_ID)")

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger

	// memory backends export to one shared in-process sheet
	memSheet *sheetmem.Sheet
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *DefaultFactory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var repo ledger.Repository
	switch config.Type {
	case SQLiteBackend:
		sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		repo = sqliteRepo
		f.logger.DebugContext(ctx, "Initialized SQLite backend", applog.FieldPath, config.SQLiteDBPath)
	case MemoryBackend:
		repo = memory.New()
		f.logger.DebugContext(ctx, "Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// Events are best effort: a broker outage must not block bookkeeping.
	var publisher ledger.EventPublisher
	var amqpClient *amqp.Client
	if config.AMQPEnabled() {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			amqpClient = client
			publisher = client
			f.logger.DebugContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	engine := ledger.NewEngine(repo, publisher, f.logger)
	return &BackendResult{
		Engine: engine,
		Cleanup: func() error {
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, engine.Close())
			return errors.Join(errs...)
		},
	}, nil
}

// CreateSheetsExporter returns the Google Sheets exporter when a spreadsheet is
// configured. Memory backends fall back to an in-process sheet that is discarded
// when the process exits.
func (f *DefaultFactory) CreateSheetsExporter(ctx context.Context, config Config) (sheets.TransactionSheet, error) {
	if config.SheetsEnabled() {
		client, err := gsheet.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetName, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		return client, nil
	}
	if config.Type == MemoryBackend {
		if f.memSheet == nil {
			f.memSheet = sheetmem.New(config.GoogleSheetName)
		}
		return f.memSheet, nil
	}
	return nil, ErrSheetsNotConfigured
}

// NewConsumer dials the broker for reading ledger events.
func (f *DefaultFactory) NewConsumer(config Config) (*amqp.Client, error) {
	if !config.AMQPEnabled() {
		return nil, errors.New("AMQP is not configured (set AMQP_URL)")
	}
	return amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
}

var _ Factory = (*DefaultFactory)(nil)
