package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/outreach-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "outreach.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS trial_status (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS campaigns (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	data       TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS audit_log (
	id        TEXT PRIMARY KEY,
	type      TEXT NOT NULL,
	actor_id  TEXT NOT NULL,
	payload   TEXT,
	timestamp DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_campaigns_status ON campaigns(status);
CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
`

const dripConfigKey = "drip_config"

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetTrialStatus(ctx context.Context) (*model.TrialStatus, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM trial_status WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get trial status")
	}
	var status model.TrialStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal trial status")
	}
	return &status, nil
}

func (s *SQLiteStore) SetTrialStatus(ctx context.Context, status model.TrialStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal trial status")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO trial_status (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: set trial status")
}

func (s *SQLiteStore) SaveCampaign(ctx context.Context, record *model.CampaignRecord) error {
	if record == nil || record.ID == "" {
		return eris.New("sqlite: campaign record requires an id")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal campaign")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO campaigns (id, status, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET status = excluded.status, data = excluded.data, updated_at = excluded.updated_at`,
		record.ID, string(record.Status), string(data), record.CreatedAt.UTC(), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save campaign %s", record.ID)
}

func (s *SQLiteStore) GetCampaign(ctx context.Context, id string) (*model.CampaignRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM campaigns WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get campaign %s", id)
	}
	return unmarshalCampaign(data)
}

func (s *SQLiteStore) ActiveCampaign(ctx context.Context) (*model.CampaignRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM campaigns WHERE status = ? ORDER BY created_at DESC LIMIT 1`,
		string(model.CampaignStatusActive),
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get active campaign")
	}
	return unmarshalCampaign(data)
}

func (s *SQLiteStore) ListCampaigns(ctx context.Context, limit int) ([]model.CampaignRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM campaigns ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list campaigns")
	}
	defer rows.Close()

	var out []model.CampaignRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan campaign")
		}
		record, err := unmarshalCampaign(data)
		if err != nil {
			return nil, err
		}
		out = append(out, *record)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate campaigns")
}

func (s *SQLiteStore) AppendAudit(ctx context.Context, entry model.AuditEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal audit payload")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, type, actor_id, payload, timestamp) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, string(entry.Type), entry.ActorID, string(payload), entry.Timestamp.UTC(),
	)
	return eris.Wrap(err, "sqlite: append audit")
}

func (s *SQLiteStore) ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, actor_id, payload, timestamp FROM audit_log ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list audit")
	}
	defer rows.Close()

	var out []model.AuditEntry
	for rows.Next() {
		var (
			entry   model.AuditEntry
			typ     string
			payload string
		)
		if err := rows.Scan(&entry.ID, &typ, &entry.ActorID, &payload, &entry.Timestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan audit entry")
		}
		entry.Type = model.AuditType(typ)
		if payload != "" && payload != "null" {
			if err := json.Unmarshal([]byte(payload), &entry.Payload); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal audit payload")
			}
		}
		out = append(out, entry)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate audit")
}

func (s *SQLiteStore) GetDripConfig(ctx context.Context) (*model.DripConfig, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, dripConfigKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get drip config")
	}
	var cfg model.DripConfig
	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal drip config")
	}
	return &cfg, nil
}

func (s *SQLiteStore) SetDripConfig(ctx context.Context, cfg model.DripConfig) error {
	value, err := json.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal drip config")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		dripConfigKey, string(value), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: set drip config")
}

func unmarshalCampaign(data string) (*model.CampaignRecord, error) {
	var record model.CampaignRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal campaign")
	}
	return &record, nil
}
