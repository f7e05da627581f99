package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"tvm-calculator/domain"
)

const createCalculationsTable = `
CREATE TABLE IF NOT EXISTS tvm_calculations (
	id         UUID PRIMARY KEY,
	target     TEXT NOT NULL,
	params     JSONB NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

const pgQueryTimeout = 5 * time.Second

// CalculationRepositoryPostgres keeps the calculation history in PostgreSQL.
type CalculationRepositoryPostgres struct {
	db *sql.DB
}

// NewCalculationRepositoryPostgres opens dsn with the lib/pq driver and
// makes sure the history table exists.
func NewCalculationRepositoryPostgres(ctx context.Context, dsn string) (*CalculationRepositoryPostgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createCalculationsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &CalculationRepositoryPostgres{db: db}, nil
}

func (r *CalculationRepositoryPostgres) Save(record domain.CalculationRecord) error {
	params, result, err := encodeCalculation(record)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pgQueryTimeout)
	defer cancel()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tvm_calculations (id, target, params, result, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, string(record.Target), params, result, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

func (r *CalculationRepositoryPostgres) Recent(limit int) ([]domain.CalculationRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pgQueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, target, params, result, created_at
		 FROM tvm_calculations ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var out []domain.CalculationRecord
	for rows.Next() {
		rec, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// rowScanner is the part of *sql.Rows / *sql.Row that scanCalculation needs.
type rowScanner interface {
	Scan(dest ...any) error
}

// encodeCalculation returns the JSONB columns for params and result.
func encodeCalculation(record domain.CalculationRecord) ([]byte, []byte, error) {
	params, err := json.Marshal(record.Params)
	if err != nil {
		return nil, nil, fmt.Errorf("encode params: %w", err)
	}
	result, err := json.Marshal(record.Result)
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return params, result, nil
}

// scanCalculation reads one row in SELECT column order.
func scanCalculation(row rowScanner) (domain.CalculationRecord, error) {
	var (
		rec            domain.CalculationRecord
		target         string
		params, result []byte
	)
	if err := row.Scan(&rec.ID, &target, &params, &result, &rec.CreatedAt); err != nil {
		return domain.CalculationRecord{}, fmt.Errorf("scan calculation: %w", err)
	}
	rec.Target = domain.Target(target)
	if err := json.Unmarshal(params, &rec.Params); err != nil {
		return domain.CalculationRecord{}, fmt.Errorf("decode params: %w", err)
	}
	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return domain.CalculationRecord{}, fmt.Errorf("decode result: %w", err)
	}
	return rec, nil
}

func (r *CalculationRepositoryPostgres) Close() error {
	return r.db.Close()
}
