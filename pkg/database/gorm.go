package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the connection pool and SQL logging.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration

	// Verbose logs every statement; otherwise only slow queries and errors.
	Verbose bool
}

func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		SlowQuery:       500 * time.Millisecond,
		Verbose:         true,
	}
}

func getLogger(opts Options) logger.Interface {
	level := logger.Warn
	if opts.Verbose {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             opts.SlowQuery,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			// post content is large jsonb; keep it out of the log
			ParameterizedQueries: true,
			Colorful:             opts.Verbose,
		},
	)
}

func configureConnectionPool(db *gorm.DB, opts Options) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	return nil
}

// Open connects to Postgres. Unique violations surface as
// gorm.ErrDuplicatedKey so repositories can map them to domain errors.
func Open(dsn string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         getLogger(opts),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, opts); err != nil {
		return nil, err
	}
	return db, nil
}

// NewGormDBFromDSN opens with DefaultOptions; used by the CLI tools.
func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	return Open(dsn, DefaultOptions())
}
