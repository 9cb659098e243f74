// Package collector is the receiving end of the station uploads. It stores
// every posted payload and serves the latest readings per kit.
package collector

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gr-butler/agrokit/data"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/sirupsen/logrus"
)

// LatestLimit caps the rows returned for one kit.
const LatestLimit = 100

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS agrokits (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  id_agrokit TEXT UNIQUE NOT NULL,
  name       TEXT
);
CREATE TABLE IF NOT EXISTS sensores (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  id_agrokit     TEXT NOT NULL,
  humedad_tierra REAL,
  temp_aire      REAL,
  humedad_aire   REAL,
  temp_suelo     REAL,
  luz            REAL,
  presion        REAL,
  agua           INTEGER,
  gps            TEXT,
  bateria        REAL,
  fecha          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sensores_kit_fecha ON sensores(id_agrokit, fecha);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS agrokits (
  id         SERIAL PRIMARY KEY,
  id_agrokit TEXT UNIQUE NOT NULL,
  name       TEXT
);
CREATE TABLE IF NOT EXISTS sensores (
  id             SERIAL PRIMARY KEY,
  id_agrokit     TEXT NOT NULL,
  humedad_tierra DOUBLE PRECISION,
  temp_aire      DOUBLE PRECISION,
  humedad_aire   DOUBLE PRECISION,
  temp_suelo     DOUBLE PRECISION,
  luz            DOUBLE PRECISION,
  presion        DOUBLE PRECISION,
  agua           INTEGER,
  gps            TEXT,
  bateria        DOUBLE PRECISION,
  fecha          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sensores_kit_fecha ON sensores(id_agrokit, fecha);
`

const insertReadingSQL = `
INSERT INTO sensores (id_agrokit, humedad_tierra, temp_aire, humedad_aire, temp_suelo, luz, presion, agua, gps, bateria, fecha)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id`

const insertKitSQL = `
INSERT INTO agrokits (id_agrokit, name) VALUES ($1, $2)
ON CONFLICT (id_agrokit) DO NOTHING`

const latestSQL = `
SELECT id, id_agrokit, humedad_tierra, temp_aire, humedad_aire, temp_suelo, luz, presion, agua, fecha
FROM sensores
WHERE id_agrokit = $1
ORDER BY fecha DESC, id DESC
LIMIT $2`

const kitsSQL = `SELECT id_agrokit, name FROM agrokits ORDER BY id`

// Submission is a decoded station upload. Every measurement may be missing
// or null.
type Submission struct {
	DeviceID        string          `json:"id_agrokit"`
	SoilMoisture    *float64        `json:"humedad_tierra"`
	AirTemperature  *float64        `json:"temp_aire"`
	AirHumidity     *float64        `json:"humedad_aire"`
	SoilTemperature *float64        `json:"temp_suelo"`
	Water           *int64          `json:"agua"`
	Light           *float64        `json:"luz"`
	Pressure        *float64        `json:"presion"`
	GPS             json.RawMessage `json:"gps"`
	Battery         *float64        `json:"bateria"`
	Timestamp       string          `json:"fechaHora"`
}

// Record is one stored reading as served back to clients.
type Record struct {
	ID              int64    `json:"id"`
	DeviceID        string   `json:"id_agrokit"`
	SoilMoisture    *float64 `json:"humedad_tierra"`
	AirTemperature  *float64 `json:"temp_aire"`
	AirHumidity     *float64 `json:"humedad_aire"`
	SoilTemperature *float64 `json:"temp_suelo"`
	Light           *float64 `json:"luz"`
	Pressure        *float64 `json:"presion"`
	Water           *int64   `json:"agua"`
	Timestamp       string   `json:"timestamp"`
}

type Kit struct {
	DeviceID string `json:"id_agrokit"`
	Name     string `json:"name"`
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to Postgres for postgres:// DSNs and to sqlite otherwise,
// then creates the schema.
func Open(dsn string) (*Store, error) {
	driver, schema := "sqlite3", sqliteSchema
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, schema = "postgres", postgresSchema
	}
	logger.Infof("Opening %v store", driver)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if driver == "sqlite3" {
		// one connection keeps :memory: databases shared and avoids lock errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores one submission and registers its kit. Submissions without
// a timestamp are stamped with the current UTC time.
func (s *Store) Insert(sub Submission) (int64, error) {
	fecha := sub.Timestamp
	if fecha == "" {
		fecha = s.now().UTC().Format(data.TimestampLayout)
	}
	var gps *string
	if len(sub.GPS) > 0 && string(sub.GPS) != "null" {
		g := string(sub.GPS)
		gps = &g
	}

	var id int64
	err := s.db.QueryRow(insertReadingSQL,
		sub.DeviceID,
		sub.SoilMoisture,
		sub.AirTemperature,
		sub.AirHumidity,
		sub.SoilTemperature,
		sub.Light,
		sub.Pressure,
		sub.Water,
		gps,
		sub.Battery,
		fecha,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}

	if _, err := s.db.Exec(insertKitSQL, sub.DeviceID, sub.DeviceID); err != nil {
		logger.Errorf("Failed to register kit [%v] [%v]", sub.DeviceID, err)
	}
	return id, nil
}

// Latest returns up to limit readings for a kit, newest first.
func (s *Store) Latest(deviceID string, limit int) ([]Record, error) {
	rows, err := s.db.Query(latestSQL, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("select readings: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.DeviceID, &r.SoilMoisture, &r.AirTemperature, &r.AirHumidity,
			&r.SoilTemperature, &r.Light, &r.Pressure, &r.Water, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Kits() ([]Kit, error) {
	rows, err := s.db.Query(kitsSQL)
	if err != nil {
		return nil, fmt.Errorf("select kits: %w", err)
	}
	defer rows.Close()

	out := []Kit{}
	for rows.Next() {
		var k Kit
		var name sql.NullString
		if err := rows.Scan(&k.DeviceID, &name); err != nil {
			return nil, fmt.Errorf("scan kit: %w", err)
		}
		k.Name = name.String
		out = append(out, k)
	}
	return out, rows.Err()
}
