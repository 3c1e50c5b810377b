package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Pool abstracts pgxpool.Pool so the store can be unit-tested with pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS trial_status (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS campaigns (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS audit_log (
	id        TEXT PRIMARY KEY,
	type      TEXT NOT NULL,
	actor_id  TEXT NOT NULL,
	payload   JSONB,
	timestamp TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_campaigns_status ON campaigns(status);
CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetTrialStatus(ctx context.Context) (*model.TrialStatus, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM trial_status WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get trial status")
	}
	var status model.TrialStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal trial status")
	}
	return &status, nil
}

func (s *PostgresStore) SetTrialStatus(ctx context.Context, status model.TrialStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal trial status")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO trial_status (id, data, updated_at) VALUES (1, $1, now())
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = now()`,
		data,
	)
	return eris.Wrap(err, "postgres: set trial status")
}

func (s *PostgresStore) SaveCampaign(ctx context.Context, record *model.CampaignRecord) error {
	if record == nil || record.ID == "" {
		return eris.New("postgres: campaign record requires an id")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal campaign")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO campaigns (id, status, data, created_at, updated_at) VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (id) DO UPDATE SET status = excluded.status, data = excluded.data, updated_at = now()`,
		record.ID, string(record.Status), data, record.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: save campaign %s", record.ID)
}

func (s *PostgresStore) GetCampaign(ctx context.Context, id string) (*model.CampaignRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM campaigns WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get campaign %s", id)
	}
	var record model.CampaignRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal campaign")
	}
	return &record, nil
}

func (s *PostgresStore) ActiveCampaign(ctx context.Context) (*model.CampaignRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM campaigns WHERE status = $1 ORDER BY created_at DESC LIMIT 1`,
		string(model.CampaignStatusActive),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get active campaign")
	}
	var record model.CampaignRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal campaign")
	}
	return &record, nil
}

func (s *PostgresStore) ListCampaigns(ctx context.Context, limit int) ([]model.CampaignRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM campaigns ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list campaigns")
	}
	defer rows.Close()

	var out []model.CampaignRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan campaign")
		}
		var record model.CampaignRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal campaign")
		}
		out = append(out, record)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate campaigns")
}

func (s *PostgresStore) AppendAudit(ctx context.Context, entry model.AuditEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal audit payload")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO audit_log (id, type, actor_id, payload, timestamp) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, string(entry.Type), entry.ActorID, payload, entry.Timestamp.UTC(),
	)
	return eris.Wrap(err, "postgres: append audit")
}

func (s *PostgresStore) ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, type, actor_id, payload, timestamp FROM audit_log ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list audit")
	}
	defer rows.Close()

	var out []model.AuditEntry
	for rows.Next() {
		var (
			entry   model.AuditEntry
			typ     string
			payload []byte
		)
		if err := rows.Scan(&entry.ID, &typ, &entry.ActorID, &payload, &entry.Timestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan audit entry")
		}
		entry.Type = model.AuditType(typ)
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &entry.Payload); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal audit payload")
			}
		}
		out = append(out, entry)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate audit")
}

func (s *PostgresStore) GetDripConfig(ctx context.Context) (*model.DripConfig, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM preferences WHERE key = $1`, dripConfigKey).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get drip config")
	}
	var cfg model.DripConfig
	if err := json.Unmarshal(value, &cfg); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal drip config")
	}
	return &cfg, nil
}

func (s *PostgresStore) SetDripConfig(ctx context.Context, cfg model.DripConfig) error {
	value, err := json.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal drip config")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = now()`,
		dripConfigKey, value,
	)
	return eris.Wrap(err, "postgres: set drip config")
}
