package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/catalog/pkg/config"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const memoryPath = ":memory:"

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	data := logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		qh.log.Err(event.Err).Debug(event.Query, data)
		return
	}
	qh.log.Debug(event.Query, data)
}

// New opens the catalog database. The pool is capped at one connection: the
// catalog is a single-user store and an in-memory database only lives as long
// as its connection. Any failure here is reported as errcodes.StorageFatal.
func New(cfg *config.Config) (*bun.DB, error) {
	if cfg.DatabaseFilePath != memoryPath {
		dir := filepath.Dir(cfg.DatabaseFilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errcodes.StorageFatal(errors.Wrapf(err, "failed to create database directory %s", dir))
		}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseFilePath)
	if err != nil {
		return nil, errcodes.StorageFatal(errors.WithStack(err))
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	// print out all queries in debug mode
	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{logger.NewWithLevel("debug")})
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errcodes.StorageFatal(errors.Wrap(err, "failed to connect"))
	}

	// WAL keeps the file readable by other tools while the catalog is open.
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		_ = db.Close()
		return nil, errcodes.StorageFatal(errors.Wrap(err, "failed to enable WAL mode"))
	}

	busyTimeoutMs := cfg.DatabaseBusyTimeout.Milliseconds()
	_, err = db.Exec("PRAGMA busy_timeout=?", busyTimeoutMs)
	if err != nil {
		_ = db.Close()
		return nil, errcodes.StorageFatal(errors.Wrap(err, "failed to set busy_timeout"))
	}

	return db, nil
}
