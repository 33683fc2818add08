package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")
	// ErrStaleVersion is returned when a version-guarded write matches no row
	ErrStaleVersion = errors.New("stale version")
)

// Constraint names from pkg/database/migrations
const (
	ConstraintLinkProductVendor  = "uq_product_vendor_links_product_vendor"
	ConstraintLinkPrimaryVendor  = "uq_product_vendor_links_primary"
	ConstraintQuoteNumberVersion = "uq_vendor_quotes_link_number_version"

	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner starts transactions
type TxBeginner interface {
	DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Products ProductRepository
	Vendors  VendorRepository
	Links    SourcingLinkRepository
	Quotes   VendorQuoteRepository
}

func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Products: NewProductRepository(db),
		Vendors:  NewVendorRepository(db),
		Links:    NewSourcingLinkRepository(db),
		Quotes:   NewVendorQuoteRepository(db),
	}
}

// TxManager runs a unit of work inside one transaction
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}

type pgxTxManager struct {
	db TxBeginner
}

// NewTxManager returns a TxManager using SERIALIZABLE isolation, so every
// check-then-write sequence is atomic with respect to concurrent callers
func NewTxManager(db TxBeginner) TxManager {
	return &pgxTxManager{db: db}
}

func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(repos *Repositories) error) (err error) {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err = fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// UniqueViolation reports whether err is a unique violation of the named constraint
func UniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// SerializationFailure reports whether the transaction lost a race and may be retried by the caller
func SerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
