// Package db pkg/db/interfaces.go
package db

import (
	"time"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/spectrerace1/test-cloudmedia-sub000/pkg/db Row,Result,Rows,Transaction,Service

// StatusTransition is one point in a device's online/offline history.
type StatusTransition struct {
	Timestamp time.Time `json:"timestamp"`
	Online    bool      `json:"online"`
}

// Row represents a database row.
type Row interface {
	Scan(dest ...interface{}) error
}

// Result represents the result of a database operation.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

// Rows represents multiple database rows.
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

// Transaction represents operations that can be performed within a database transaction.
type Transaction interface {
	Exec(query string, args ...interface{}) (Result, error)
	Query(query string, args ...interface{}) (Rows, error)
	QueryRow(query string, args ...interface{}) Row
	Commit() error
	Rollback() error
}

// Service represents all journal operations.
type Service interface {
	// Core database operations.

	Begin() (Transaction, error)
	Close() error
	Exec(query string, args ...interface{}) (Result, error)
	Query(query string, args ...interface{}) (Rows, error)
	QueryRow(query string, args ...interface{}) Row

	// Device operations.

	UpdateDeviceStatus(status *models.DeviceStatus) error
	GetDeviceStatus(deviceID string) (*models.DeviceStatus, error)
	GetStatusHistory(deviceID string, limit int) ([]StatusTransition, error)

	// Alert operations.

	RecordAlert(alert *models.Alert) error
	GetAlertHistory(deviceID string, limit int) ([]models.Alert, error)

	// Maintenance operations.

	CleanOldData(retentionPeriod time.Duration) error
}
