// Package db owns the database connection and the embedded schema migrations.
package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/frahmantamala/expense-tracker/internal"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

const migrationTable = "schema_migrations"

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Conn exposes one pool through both the ORM and sqlx.
type Conn struct {
	Gorm   *gorm.DB
	SQL    *sqlx.DB
	Driver string
}

func Open(cfg internal.DatabaseConfig, logLevel gormLogger.LogLevel) (*Conn, error) {
	driver := cfg.DriverName()

	var dialector gorm.Dialector
	var sqlxDriver string
	switch driver {
	case internal.DatabasePostgres:
		dialector = postgres.New(postgres.Config{DSN: cfg.GetDSN()})
		sqlxDriver = "pgx"
	case internal.DatabaseSQLite:
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: cfg.GetDSN()}
		sqlxDriver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if driver == internal.DatabaseSQLite {
		// each connection to an in-memory database is a separate database
		sqlDB.SetMaxOpenConns(1)
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Conn{
		Gorm:   gdb,
		SQL:    sqlx.NewDb(sqlDB, sqlxDriver),
		Driver: driver,
	}, nil
}

func (c *Conn) PingContext(ctx context.Context) error {
	return c.SQL.PingContext(ctx)
}

func (c *Conn) Close() error {
	return c.SQL.Close()
}

// Migrate applies ("up"), reverts one step ("down") or reports ("status")
// the embedded migrations for the connection's dialect.
func Migrate(ctx context.Context, conn *Conn, command string) error {
	dialect, dir := "postgres", "migrations/postgres"
	if conn.Driver == internal.DatabaseSQLite {
		dialect, dir = "sqlite3", "migrations/sqlite"
	}

	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return err
	}

	goose.SetBaseFS(sub)
	goose.SetTableName(migrationTable)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, conn.SQL.DB, ".")
	case "down":
		return goose.DownContext(ctx, conn.SQL.DB, ".")
	case "status":
		return goose.StatusContext(ctx, conn.SQL.DB, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
