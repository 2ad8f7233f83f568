package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
)

var (
	// ErrBeginTx возвращается, если транзакцию не удалось начать
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, если транзакцию не удалось зафиксировать
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Option настройка менеджера транзакций
type Option func(*TransactionManager)

// WithSerializableLevel переопределяет уровень изоляции для DoSerializable.
// SQLite не поддерживает уровни изоляции, для него передаётся sql.LevelDefault
// (транзакции SQLite и так сериализуемы).
func WithSerializableLevel(level sql.IsolationLevel) Option {
	return func(m *TransactionManager) {
		m.serializableLevel = level
	}
}

// TransactionManager выполняет функции в транзакции, передавая её через контекст
type TransactionManager struct {
	db                TxBeginner
	serializableLevel sql.IsolationLevel
}

func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:                db,
		serializableLevel: sql.LevelSerializable,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{Isolation: sql.LevelDefault}, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции.
// Если контекст уже содержит транзакцию, fn выполняется в ней.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{Isolation: m.serializableLevel}, fn)
}

func (m *TransactionManager) do(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("txmanager: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return nil
}
