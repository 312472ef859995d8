package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"HashClock/internal/domain/models"
	"HashClock/internal/domain/repository"
	pkgch "HashClock/pkg/clickhouse"
	applogger "HashClock/pkg/logger"
)

const insertColumns = "id, source, birth_date, birth_time, instant, latitude, longitude, strategy, sun_sign, moon_sign, ascendant, dominant_element, dominant_modality, aspect_count, rarity, payload, computed_at"

// rows per INSERT statement
const chunkSize = 1000

var _ repository.Storage = (*ClickHouseStorage)(nil)

// ClickHouseStorage archives signature records in a ReplacingMergeTree keyed
// by record id, so a redelivered record collapses into one row.
type ClickHouseStorage struct {
	client   *pkgch.Client
	db       *sql.DB
	database string
	table    string
	l        *applogger.Logger
}

func NewClickHouseStorage(client *pkgch.Client, table string, l *applogger.Logger) *ClickHouseStorage {
	if l == nil {
		l = applogger.Nop()
	}
	return &ClickHouseStorage{
		client:   client,
		db:       client.DB(),
		database: client.Database(),
		table:    table,
		l:        l,
	}
}

// SignatureSchema returns the DDL for the archive table.
func SignatureSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    id                String,
    source            LowCardinality(String),
    birth_date        String,
    birth_time        String,
    instant           DateTime64(3, 'UTC'),
    latitude          Nullable(Float64),
    longitude         Nullable(Float64),
    strategy          LowCardinality(String),
    sun_sign          LowCardinality(String),
    moon_sign         LowCardinality(String),
    ascendant         LowCardinality(String),
    dominant_element  LowCardinality(String),
    dominant_modality LowCardinality(String),
    aspect_count      UInt16,
    rarity            Int64,
    payload           String CODEC(ZSTD),
    computed_at       DateTime64(3, 'UTC')
) ENGINE = ReplacingMergeTree(computed_at)
PARTITION BY toYYYYMM(computed_at)
ORDER BY (id)`, database, table),
	}
}

func (s *ClickHouseStorage) qualified() string { return s.database + "." + s.table }

func (s *ClickHouseStorage) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, SignatureSchema(s.database, s.table))
}

func (s *ClickHouseStorage) Store(ctx context.Context, r *models.SignatureRecord) error {
	return s.StoreBatch(ctx, []*models.SignatureRecord{r})
}

func (s *ClickHouseStorage) StoreBatch(ctx context.Context, records []*models.SignatureRecord) error {
	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		q, args := buildInsert(s.qualified(), records[start:end])
		if q == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("clickhouse insert failed",
				applogger.String("table", s.qualified()),
				applogger.Int("rows", end-start),
				applogger.Error(err))
			return fmt.Errorf("insert signatures: %w", err)
		}
	}
	return nil
}

// buildInsert renders a multi-row INSERT. Records without an id are skipped.
func buildInsert(table string, records []*models.SignatureRecord) (string, []interface{}) {
	values := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*17)
	for _, r := range records {
		if r == nil || r.ID == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			r.ID, r.Source, r.BirthDate, r.BirthTime, r.Instant.UTC(),
			nullable(r.Latitude), nullable(r.Longitude),
			r.Strategy, r.SunSign, r.MoonSign, r.Ascendant, r.Dominant, r.Modality,
			uint16(r.Aspects), r.Rarity, r.Payload, r.ComputedAt.UTC(),
		)
	}
	if len(values) == 0 {
		return "", nil
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, insertColumns, strings.Join(values, ", ")), args
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// Query returns records computed in [from, to], newest first.
func (s *ClickHouseStorage) Query(ctx context.Context, from, to time.Time, limit int) ([]*models.SignatureRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE computed_at >= ? AND computed_at <= ? ORDER BY computed_at DESC LIMIT ?",
		insertColumns, s.qualified())
	rows, err := s.db.QueryContext(ctx, q, from.UTC(), to.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}
	defer rows.Close()

	out := make([]*models.SignatureRecord, 0, limit)
	for rows.Next() {
		var (
			r        models.SignatureRecord
			lat, lon sql.NullFloat64
			aspects  uint16
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.BirthDate, &r.BirthTime, &r.Instant, &lat, &lon,
			&r.Strategy, &r.SunSign, &r.MoonSign, &r.Ascendant, &r.Dominant, &r.Modality,
			&aspects, &r.Rarity, &r.Payload, &r.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		if lat.Valid {
			r.Latitude = &lat.Float64
		}
		if lon.Valid {
			r.Longitude = &lon.Float64
		}
		r.Aspects = int(aspects)
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	if s.db == nil {
		return errors.New("clickhouse: not connected")
	}
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return s.client.Close()
}
