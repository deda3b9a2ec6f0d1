package db

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Options configures the connection.
type Options struct {
	DSN string

	// SuppressTransientWarnings logs connectivity blips once at warn level
	// instead of as a statement error each time.
	SuppressTransientWarnings bool

	SlowThreshold time.Duration
	LogLevel      logger.LogLevel
}

func Connect(opts Options) {
	if opts.DSN == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := Open(postgres.Open(opts.DSN), opts)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB: ", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	DB = db
	log.Println("Connected to database")
}

// Open opens a GORM handle on dialector with the statement logger described by opts.
func Open(dialector gorm.Dialector, opts Options) (*gorm.DB, error) {
	if opts.SlowThreshold <= 0 {
		opts.SlowThreshold = 100 * time.Millisecond
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	var lg logger.Interface = logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             opts.SlowThreshold,
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	if opts.SuppressTransientWarnings {
		lg = NewTransientFilter(lg)
	}

	return gorm.Open(dialector, &gorm.Config{Logger: lg})
}
