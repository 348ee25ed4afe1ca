package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const uniqueViolationCode = "23505"

var tracer = otel.Tracer("internal/storage/db")

// DB is satisfied by both the pool and an open transaction, so repositories
// run unchanged inside or outside WithTx.
type DB interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row

	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults

	// WithTx runs txFunc in a transaction. Nested calls join the outer one.
	WithTx(ctx context.Context, txFunc func(DB) error) error
}

var _ DB = (*Client)(nil)

type Client struct {
	*pgxpool.Pool
}

func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool}
}

// WithTx commits when txFunc returns nil and rolls back otherwise. Stock
// changes and the outbox rows describing them share this transaction.
func (p *Client) WithTx(ctx context.Context, txFunc func(DB) error) (err error) {
	ctx, span := tracer.Start(ctx, "db.WithTx")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transaction rolled back")
		}
		span.End()
	}()

	tx, err := p.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			rbErr := tx.Rollback(ctx)
			if !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if err = txFunc(&txWrapper{Tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("commit transaction: %w", err)
	}

	return err
}

// IsHealthy backs the /healthz probe.
func (p *Client) IsHealthy(ctx context.Context) (bool, error) {
	if err := p.Ping(ctx); err != nil {
		return false, fmt.Errorf("ping database: %w", err)
	}
	return true, nil
}

type txWrapper struct {
	pgx.Tx
}

func (t *txWrapper) WithTx(_ context.Context, txFunc func(DB) error) error {
	return txFunc(t)
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
