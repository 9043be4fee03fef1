package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// documentRow is the single-table layout shared by every SQL dialect.
//
// The body size makes each dialect pick its unbounded text type: LONGTEXT on
// MySQL, NVARCHAR(MAX) on SQL Server and TEXT on Postgres and SQLite. A plain
// MySQL TEXT column stops at 64 KiB.
type documentRow struct {
	Name      string `gorm:"primaryKey;size:64"`
	Body      string `gorm:"size:4294967295;not null"`
	UpdatedAt time.Time
}

func (documentRow) TableName() string { return "documents" }

// SQLStore keeps the document as a JSON body in a `documents` table. Each
// save is a single upsert statement.
type SQLStore[T any] struct {
	db   *gorm.DB
	name string
}

// OpenSQL opens a GORM connection for driver/dsn and migrates the documents
// table. name identifies the document row.
func OpenSQL[T any](driver, dsn, name string) (*SQLStore[T], error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	if err := db.AutoMigrate(&documentRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database: migrate: %w", err)
	}

	return &SQLStore[T]{db: db, name: name}, nil
}

func (s *SQLStore[T]) Load(ctx context.Context) (*T, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("name = ?", s.name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("selecting document: %w", err)
	}

	var doc T
	if err := json.Unmarshal([]byte(row.Body), &doc); err != nil {
		return nil, fmt.Errorf("%w: row %q: %v", ErrCorrupt, s.name, err)
	}
	return &doc, nil
}

func (s *SQLStore[T]) Save(ctx context.Context, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	row := documentRow{Name: s.name, Body: string(raw), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}
	return nil
}

func (s *SQLStore[T]) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required for driver %q", driver)
	}
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}
