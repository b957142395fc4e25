package postgres

import (
	"context"
	"database/sql"

	"github.com/daposadap9/prueba-tecnica-fullstack/internal/config"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type Conn interface {
	Queryer
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
	Ping(context.Context) error
	RunInTransaction(context.Context, func(*sql.Tx) error) error
}

type Connection struct {
	*sql.DB
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "abrir conexión")
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping inicial")
	}

	return &Connection{DB: db}, nil
}

// NewFromDB envuelve una conexión ya abierta
func NewFromDB(db *sql.DB) *Connection {
	return &Connection{DB: db}
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// RunInTransaction ejecuta fn dentro de una transacción; cualquier error o panic la revierte
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrap(err, rbErr.Error())
		}
		return err
	}

	return tx.Commit()
}
