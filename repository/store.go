package repository

import (
	"context"
	"errors"

	"game-night-service/apperr"
	"game-night-service/logger"

	"gorm.io/gorm"
)

type txKey struct{}

// Store is the gorm-backed persistence layer. Every method runs on the
// transaction carried by ctx when there is one, and on the root handle otherwise.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStore(db *gorm.DB, baseLog *logger.Logger) *Store {
	return &Store{db: db, log: baseLog.With("repo", "Store")}
}

// DB exposes the root handle for health checks and migrations.
func (s *Store) DB() *gorm.DB { return s.db }

// RunInTx runs fn inside one database transaction. A nested call joins the
// outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperr.Internal(err, "database handle unavailable")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperr.Internal(err, "database unreachable")
	}
	return nil
}

// translate maps gorm errors onto the application taxonomy.
func translate(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s %s not found", entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		e := apperr.Conflict("%s already exists", entity)
		e.Cause = err
		return e
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		e := apperr.Validation("%s references a missing record", entity)
		e.Cause = err
		return e
	default:
		return apperr.Internal(err, "%s query failed", entity)
	}
}
