package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oarkflow/squealx"

	"github.com/oarkflow/contact/pkg/errs"
	"github.com/oarkflow/contact/pkg/models"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
	SQLite     DatabaseType = "sqlite"
)

// ScopeLocal is the site-wide scope: items survive reloads and restarts.
const ScopeLocal = "local"

// DatabaseStorage persists key/value items and accepted submissions.
type DatabaseStorage struct {
	db     *squealx.DB
	dbType DatabaseType
}

// NewDatabaseStorage creates a new database storage instance
func NewDatabaseStorage(db *squealx.DB) (*DatabaseStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	storage := &DatabaseStorage{
		db:     db,
		dbType: DetectDatabaseType(db.DriverName(), ""),
	}

	if err := storage.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}

	return storage, nil
}

// Scope returns a Storage view over the items of one scope.
func (d *DatabaseStorage) Scope(scope string) *ScopedStorage {
	return &ScopedStorage{store: d, scope: scope}
}

func (d *DatabaseStorage) createTables() error {
	var queries []string

	switch d.dbType {
	case MySQL:
		queries = d.getMySQLSchema()
	case PostgreSQL:
		queries = d.getPostgreSQLSchema()
	case SQLite:
		queries = d.getSQLiteSchema()
	default:
		return fmt.Errorf("unsupported database type: %s", d.dbType)
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

func (d *DatabaseStorage) getMySQLSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS storage_items (
			scope VARCHAR(191) NOT NULL,
			item_key VARCHAR(191) NOT NULL,
			item_value LONGTEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (scope, item_key)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS contact_submissions (
			id BIGINT PRIMARY KEY,
			name VARCHAR(1024) NOT NULL,
			email VARCHAR(1024) NOT NULL,
			phone VARCHAR(255),
			subject VARCHAR(64) NOT NULL,
			message LONGTEXT NOT NULL,
			csrf_token VARCHAR(64),
			submitted_at BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_contact_submissions_subject (subject),
			INDEX idx_contact_submissions_submitted_at (submitted_at)
		) ENGINE=InnoDB`,
	}
}

func (d *DatabaseStorage) getPostgreSQLSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS storage_items (
			scope VARCHAR(255) NOT NULL,
			item_key VARCHAR(255) NOT NULL,
			item_value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (scope, item_key)
		)`,

		`CREATE TABLE IF NOT EXISTS contact_submissions (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			subject VARCHAR(64) NOT NULL,
			message TEXT NOT NULL,
			csrf_token VARCHAR(64),
			submitted_at BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_contact_submissions_subject ON contact_submissions(subject)`,
		`CREATE INDEX IF NOT EXISTS idx_contact_submissions_submitted_at ON contact_submissions(submitted_at)`,
	}
}

func (d *DatabaseStorage) getSQLiteSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS storage_items (
			scope TEXT NOT NULL,
			item_key TEXT NOT NULL,
			item_value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (scope, item_key)
		)`,

		`CREATE TABLE IF NOT EXISTS contact_submissions (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			subject TEXT NOT NULL,
			message TEXT NOT NULL,
			csrf_token TEXT,
			submitted_at INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_contact_submissions_subject ON contact_submissions(subject)`,
		`CREATE INDEX IF NOT EXISTS idx_contact_submissions_submitted_at ON contact_submissions(submitted_at)`,
	}
}

func (d *DatabaseStorage) getItem(scope, key string) (string, error) {
	query := `SELECT item_value FROM storage_items WHERE scope = :scope AND item_key = :item_key`
	params := map[string]any{
		"scope":    scope,
		"item_key": key,
	}

	var value string
	err := d.db.NamedGet(&value, query, params)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
	}
	return value, nil
}

// setItem performs a database-agnostic upsert of one item.
func (d *DatabaseStorage) setItem(scope, key, value string) error {
	updateQuery := `
		UPDATE storage_items
		SET item_value = :item_value, updated_at = CURRENT_TIMESTAMP
		WHERE scope = :scope AND item_key = :item_key`

	params := map[string]any{
		"scope":      scope,
		"item_key":   key,
		"item_value": value,
	}

	result, err := d.db.NamedExec(updateQuery, params)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
	}

	if rowsAffected == 0 {
		insertQuery := `
			INSERT INTO storage_items (scope, item_key, item_value)
			VALUES (:scope, :item_key, :item_value)`

		if _, err := d.db.NamedExec(insertQuery, params); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
		}
	}

	return nil
}

func (d *DatabaseStorage) removeItem(scope, key string) error {
	query := `DELETE FROM storage_items WHERE scope = :scope AND item_key = :item_key`
	params := map[string]any{
		"scope":    scope,
		"item_key": key,
	}
	if _, err := d.db.NamedExec(query, params); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
	}
	return nil
}

// InsertSubmission stores an accepted submission.
func (d *DatabaseStorage) InsertSubmission(s models.SecureSubmission) error {
	query := `
		INSERT INTO contact_submissions (id, name, email, phone, subject, message, csrf_token, submitted_at)
		VALUES (:id, :name, :email, :phone, :subject, :message, :csrf_token, :submitted_at)`
	params := map[string]any{
		"id":           s.ID,
		"name":         s.Name,
		"email":        s.Email,
		"phone":        s.Phone,
		"subject":      s.Subject,
		"message":      s.Message,
		"csrf_token":   s.CSRFToken,
		"submitted_at": s.Timestamp,
	}
	if _, err := d.db.NamedExec(query, params); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetSubmission loads one stored submission by id.
func (d *DatabaseStorage) GetSubmission(id int64) (models.SecureSubmission, error) {
	query := `
		SELECT id, name, email, COALESCE(phone, '') AS phone, subject, message,
			COALESCE(csrf_token, '') AS csrf_token, submitted_at
		FROM contact_submissions WHERE id = :id`
	params := map[string]any{
		"id": id,
	}

	var s models.SecureSubmission
	err := d.db.NamedGet(&s, query, params)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SecureSubmission{}, errs.ErrNotFound
	}
	if err != nil {
		return models.SecureSubmission{}, err
	}
	return s, nil
}

// DetectDatabaseType guesses the dialect from a driver name or data source.
func DetectDatabaseType(driverName string, dataSource string) DatabaseType {
	driverName = strings.ToLower(driverName)
	dataSource = strings.ToLower(dataSource)

	switch {
	case strings.Contains(driverName, "mysql") || strings.Contains(dataSource, "mysql"):
		return MySQL
	case strings.Contains(driverName, "postgres") || strings.Contains(driverName, "pgx") ||
		strings.Contains(dataSource, "postgres") || strings.Contains(dataSource, "postgresql"):
		return PostgreSQL
	default:
		return SQLite
	}
}

// ScopedStorage implements contracts.Storage over one scope of a database.
type ScopedStorage struct {
	store *DatabaseStorage
	scope string
}

func (s *ScopedStorage) GetItem(key string) (string, error) {
	return s.store.getItem(s.scope, key)
}

func (s *ScopedStorage) SetItem(key, value string) error {
	return s.store.setItem(s.scope, key, value)
}

func (s *ScopedStorage) RemoveItem(key string) error {
	return s.store.removeItem(s.scope, key)
}
