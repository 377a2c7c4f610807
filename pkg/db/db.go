// Package db pkg/db/db.go provides the SQLite-backed history journal: device
// online/offline transitions and the alert log the dashboard's history
// endpoints read. The in-memory status store stays authoritative for current
// state; the journal only observes it.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

const (
	defaultHistoryLimit = 1000

	createTablesSQL = `
	-- Device information
	CREATE TABLE IF NOT EXISTS devices (
		device_id TEXT PRIMARY KEY,
		first_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		online BOOLEAN NOT NULL DEFAULT 0,
		ip TEXT,
		version TEXT
	);

	-- Online/offline transition history
	CREATE TABLE IF NOT EXISTS status_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		online BOOLEAN NOT NULL DEFAULT 0,
		FOREIGN KEY (device_id) REFERENCES devices(device_id) ON DELETE CASCADE
	);

	-- Alert log
	CREATE TABLE IF NOT EXISTS alert_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (device_id) REFERENCES devices(device_id) ON DELETE CASCADE
	);

	-- Indexes for better query performance
	CREATE INDEX IF NOT EXISTS idx_status_history_device_time
		ON status_history(device_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_alert_history_device_time
		ON alert_history(device_id, timestamp);

	PRAGMA foreign_keys=ON;
	`
)

// DB represents the database connection and operations.
type DB struct {
	*sql.DB
}

// New creates a new database connection and initializes the schema.
func New(dbPath string) (Service, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	db := &DB{sqlDB}
	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return db, nil
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.Exec(createTablesSQL)

	return err
}

// UpdateDeviceStatus upserts the device row and appends one history point.
func (db *DB) UpdateDeviceStatus(status *models.DeviceStatus) error {
	tx, err := db.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, err)

	err = db.updateExistingDevice(tx, status)
	if errors.Is(err, sql.ErrNoRows) {
		err = db.insertNewDevice(tx, status)
	}

	if err != nil {
		return fmt.Errorf("failed to update device status: %w", err)
	}

	err = db.addStatusHistory(tx, status)
	if err != nil {
		return fmt.Errorf("failed to add status history: %w", err)
	}

	return tx.Commit()
}

func (*DB) updateExistingDevice(tx *sql.Tx, status *models.DeviceStatus) error {
	result, err := tx.Exec(`
        UPDATE devices
        SET last_seen = ?,
            online = ?,
            ip = ?,
            version = ?
        WHERE device_id = ?
    `, status.LastSeen, status.Online, status.IP, status.Version, status.DeviceID)
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (*DB) insertNewDevice(tx *sql.Tx, status *models.DeviceStatus) error {
	_, err := tx.Exec(`
        INSERT INTO devices (device_id, first_seen, last_seen, online, ip, version)
        VALUES (?, CURRENT_TIMESTAMP, ?, ?, ?, ?)
    `, status.DeviceID, status.LastSeen, status.Online, status.IP, status.Version)

	if err != nil {
		return fmt.Errorf("%w device: %w", ErrFailedToInsert, err)
	}

	return nil
}

func (*DB) addStatusHistory(tx *sql.Tx, status *models.DeviceStatus) error {
	_, err := tx.Exec(`
        INSERT INTO status_history (device_id, timestamp, online)
        VALUES (?, ?, ?)
    `, status.DeviceID, status.LastSeen, status.Online)

	if err != nil {
		return fmt.Errorf("%w status history: %w", ErrFailedToInsert, err)
	}

	return nil
}

func rollbackOnError(tx *sql.Tx, err error) {
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("Error rolling back transaction: %v", rbErr)
		}
	}
}

// GetDeviceStatus returns the journaled row for one device.
func (db *DB) GetDeviceStatus(deviceID string) (*models.DeviceStatus, error) {
	const query = `
        SELECT device_id, last_seen, online, ip, version
        FROM devices
        WHERE device_id = ?
    `

	var (
		status  models.DeviceStatus
		ip      sql.NullString
		version sql.NullString
	)

	err := db.QueryRow(query, deviceID).Scan(
		&status.DeviceID,
		&status.LastSeen,
		&status.Online,
		&ip,
		&version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
	}

	status.IP = ip.String
	status.Version = version.String

	return &status, nil
}

// GetStatusHistory returns the device's most recent transitions, newest first.
func (db *DB) GetStatusHistory(deviceID string, limit int) ([]StatusTransition, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}

	const query = `
        SELECT timestamp, online
        FROM status_history
        WHERE device_id = ?
        ORDER BY timestamp DESC
        LIMIT ?
    `

	rows, err := db.Query(query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w status history: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows)

	var history []StatusTransition

	for rows.Next() {
		var point StatusTransition
		if err := rows.Scan(&point.Timestamp, &point.Online); err != nil {
			return nil, fmt.Errorf("%w status history: %w", ErrFailedToScan, err)
		}

		history = append(history, point)
	}

	return history, rows.Err()
}

// RecordAlert appends one alert to the log.
func (db *DB) RecordAlert(alert *models.Alert) error {
	const insertSQL = `
		INSERT INTO alert_history (device_id, severity, message, timestamp)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(insertSQL,
		alert.DeviceID,
		string(alert.Severity),
		alert.Message,
		alert.Timestamp)

	if err != nil {
		return fmt.Errorf("%w alert: %w", ErrFailedToInsert, err)
	}

	return nil
}

// GetAlertHistory returns the device's most recent alerts, newest first.
func (db *DB) GetAlertHistory(deviceID string, limit int) ([]models.Alert, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}

	const query = `
        SELECT device_id, severity, message, timestamp
        FROM alert_history
        WHERE device_id = ?
        ORDER BY timestamp DESC
        LIMIT ?
    `

	rows, err := db.Query(query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w alert history: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows)

	var alerts []models.Alert

	for rows.Next() {
		var (
			alert    models.Alert
			severity string
		)

		if err := rows.Scan(&alert.DeviceID, &severity, &alert.Message, &alert.Timestamp); err != nil {
			return nil, fmt.Errorf("%w alert history: %w", ErrFailedToScan, err)
		}

		alert.Severity = models.AlertSeverity(severity)
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}

// CleanOldData prunes history and alert rows older than the retention period.
func (db *DB) CleanOldData(retentionPeriod time.Duration) error {
	cutoff := time.Now().Add(-retentionPeriod)

	for _, stmt := range []string{
		"DELETE FROM status_history WHERE timestamp < ?",
		"DELETE FROM alert_history WHERE timestamp < ?",
	} {
		if _, err := db.Exec(stmt, cutoff); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToClean, err)
		}
	}

	return nil
}

// Begin starts a transaction behind the Transaction interface.
func (db *DB) Begin() (Transaction, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &SQLTx{tx}, nil
}

// Exec runs a statement behind the Result interface.
func (db *DB) Exec(query string, args ...interface{}) (Result, error) {
	result, err := db.DB.Exec(query, args...)
	if err != nil {
		return nil, err
	}

	return &SQLResult{result}, nil
}

// Query runs a query behind the Rows interface.
func (db *DB) Query(query string, args ...interface{}) (Rows, error) {
	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &SQLRows{rows}, nil
}

// QueryRow runs a single-row query behind the Row interface.
func (db *DB) QueryRow(query string, args ...interface{}) Row {
	return &SQLRow{db.DB.QueryRow(query, args...)}
}

func closeRows(rows Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("failed to close rows: %v", err)
	}
}
