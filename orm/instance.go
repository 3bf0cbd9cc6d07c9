package orm

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/jackc/pgx/v5/pgconn"
	sloggorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/solcore-labs/corecollection/orm/config"
	"github.com/solcore-labs/corecollection/orm/plugins"
	"github.com/solcore-labs/corecollection/types"
)

const uniqueViolationCode = "23505"

var (
	UpdateAllWhenConflict = clause.OnConflict{
		UpdateAll: true,
	}
	DoNothingWhenConflict = clause.OnConflict{
		DoNothing: true,
	}
)

type Database struct {
	*gorm.DB
	config *config.Config
	logger *slog.Logger
}

func OpenDB(cfg *config.Config, logger *slog.Logger) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, types.NewConfigError("invalid database config", err)
	}

	gormcfg := &gorm.Config{
		NamingStrategy:  schema.NamingStrategy{SingularTable: true},
		PrepareStmt:     true,
		CreateBatchSize: cfg.BatchSize,
		Logger:          sloggorm.New(sloggorm.WithHandler(logger.Handler())),
	}

	instance, err := gorm.Open(postgres.Open(cfg.DSN), gormcfg)
	if err != nil {
		return nil, types.NewDatabaseError("open", err)
	}

	sqlDB, err := instance.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.IdleConns)

	return NewDatabase(instance, cfg, logger)
}

// NewDatabase wraps an opened gorm handle and installs the metrics plugin.
func NewDatabase(instance *gorm.DB, cfg *config.Config, logger *slog.Logger) (*Database, error) {
	if err := instance.Use(plugins.NewMetricsPlugin()); err != nil {
		return nil, err
	}
	return &Database{DB: instance, config: cfg, logger: logger.With("module", "orm")}, nil
}

// Migrate applies the atlas migration directory when it holds migrations and
// falls back to gorm's AutoMigrate otherwise.
func (d Database) Migrate(ctx context.Context) error {
	if d.config == nil || !d.config.AutoMigrate {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(d.config.MigrationDir, "*.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		d.logger.Info("no migration files found, running auto migrate", slog.String("dir", d.config.MigrationDir))
		return d.AutoMigrate(types.AllModels()...)
	}

	workDir, err := atlasexec.NewWorkingDir(
		atlasexec.WithMigrations(
			os.DirFS(d.config.MigrationDir),
		),
	)
	if err != nil {
		return err
	}
	defer func() { _ = workDir.Close() }()

	client, err := atlasexec.NewClient(workDir.Path(), "atlas")
	if err != nil {
		return err
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL: d.config.DSN,
	})
	if err != nil {
		return types.NewDatabaseError("migrate", err)
	}
	d.logger.Info("migrations applied", slog.Int("count", len(res.Applied)), slog.String("target", res.Target))

	return nil
}

func (d Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d Database) GetBatchSize() int {
	if d.config == nil || d.config.BatchSize < 1 {
		return 100
	}
	return d.config.BatchSize
}

// GetDBStats returns database connection pool statistics
func (d Database) GetDBStats() (*sql.DBStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, err
	}

	stats := sqlDB.Stats()
	return &stats, nil
}

// Ping checks that the database answers.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsUniqueViolation reports whether err is a postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
