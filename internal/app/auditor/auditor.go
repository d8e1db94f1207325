package auditor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	kafka_impl "pictiato/internal/broker/kafka"
	"pictiato/internal/config"
	"pictiato/internal/domain"
	audit_repo "pictiato/internal/repository/audit/postgres"

	"github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

// Auditor consumes asset lifecycle events and records them in the audit
// table. Malformed messages are logged and committed so they are not
// redelivered forever.
type Auditor struct {
	cfg         *config.Config
	logger      *zlog.Zerolog
	db          *dbpg.DB
	consumer    *kafka_impl.ConsumerClient
	audit       *audit_repo.AuditRepository
	concurrency int
	wg          sync.WaitGroup
}

func NewAuditor(cfg *config.Config, logger *zlog.Zerolog) (*Auditor, error) {
	if !cfg.EventsEnabled() {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	retries := cfg.DefaultRetryStrategy()
	dbOpts := &dbpg.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}

	db, err := dbpg.New(cfg.DBDSN(), []string{}, dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.EventsTopic).
		Str("group", cfg.Kafka.GroupID).
		Int("concurrency", cfg.Auditor.Concurrency).
		Msg("Auditor configuration")

	return &Auditor{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		consumer:    kafka_impl.NewConsumerClient(cfg),
		audit:       audit_repo.NewAuditRepository(db, retries),
		concurrency: cfg.Auditor.Concurrency,
	}, nil
}

func (a *Auditor) Run() error {
	a.logger.Info().Int("concurrency", a.concurrency).Msg("Starting auditor")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		a.logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
		cancel()
	}()

	messages := make(chan kafka.Message, a.concurrency*2)
	go a.consumer.StartConsuming(ctx, messages, a.cfg.DefaultRetryStrategy())

	for i := 0; i < a.concurrency; i++ {
		a.wg.Add(1)
		go func(id int) {
			defer a.wg.Done()
			a.worker(ctx, id, messages)
		}(i)
	}

	<-ctx.Done()
	a.wg.Wait()

	if a.db != nil && a.db.Master != nil {
		a.db.Master.Close()
	}
	if a.consumer != nil {
		a.consumer.Close()
	}

	a.logger.Info().Msg("Auditor stopped gracefully")
	return nil
}

func (a *Auditor) worker(ctx context.Context, id int, messages <-chan kafka.Message) {
	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Int("worker_id", id).Msg("Worker stopped")
			return
		case msg := <-messages:
			a.processMessage(ctx, id, msg)
		}
	}
}

func (a *Auditor) processMessage(ctx context.Context, workerID int, msg kafka.Message) {
	var ev domain.AssetEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		a.logger.Error().
			Err(err).
			Int("worker_id", workerID).
			Int64("offset", msg.Offset).
			Msg("Failed to unmarshal event")
		a.commit(ctx, msg)
		return
	}

	if err := a.audit.Record(ctx, &ev); err != nil {
		a.logger.Error().
			Err(err).
			Str("path", ev.Path).
			Str("event_type", string(ev.Type)).
			Msg("Failed to record audit event")
		return
	}

	a.commit(ctx, msg)

	a.logger.Info().
		Int("worker_id", workerID).
		Str("event_type", string(ev.Type)).
		Str("domain", ev.Domain).
		Str("path", ev.Path).
		Msg("Event recorded")
}

func (a *Auditor) commit(ctx context.Context, msg kafka.Message) {
	if err := a.consumer.Commit(ctx, msg); err != nil {
		a.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to commit message")
	}
}
