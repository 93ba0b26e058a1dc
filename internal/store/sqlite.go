package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/cfgo/coastfire-calculator/internal/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ScenarioStore persists saved scenario override bundles to SQLite. At most
// one scenario per store is flagged primary; SetPrimary enforces this in a
// transaction.
type ScenarioStore struct {
	db *sql.DB
	mu sync.Mutex
}

// SavedScenario is a stored override bundle plus its storage identity.
type SavedScenario struct {
	ID        string                   `json:"id"`
	Overrides domain.ScenarioOverrides `json:"overrides"`
	CreatedAt time.Time                `json:"created_at"`
}

// Open opens (or creates) the store database and runs migrations.
func Open(path string) (*ScenarioStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so API reads don't block saves.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &ScenarioStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *ScenarioStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scenarios (
			id                   TEXT PRIMARY KEY,
			name                 TEXT NOT NULL UNIQUE,
			allocation_overrides TEXT,
			return_overrides     TEXT,
			monthly_contribution TEXT,
			horizon_months       INTEGER,
			is_primary           INTEGER NOT NULL DEFAULT 0,
			created_at           INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scenarios_primary ON scenarios(is_primary)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save inserts a scenario and returns its generated id. When the scenario is
// flagged primary, any existing primary flag is cleared first.
func (s *ScenarioStore) Save(overrides domain.ScenarioOverrides) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allocJSON, retJSON, err := marshalOverrideMaps(overrides)
	if err != nil {
		return "", err
	}

	var contribution sql.NullString
	if overrides.MonthlyContribution != nil {
		contribution = sql.NullString{String: overrides.MonthlyContribution.String(), Valid: true}
	}
	var horizon sql.NullInt64
	if overrides.HorizonMonths != nil {
		horizon = sql.NullInt64{Int64: int64(*overrides.HorizonMonths), Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if overrides.Primary {
		if _, err := tx.Exec(`UPDATE scenarios SET is_primary = 0 WHERE is_primary = 1`); err != nil {
			return "", fmt.Errorf("clear primary: %w", err)
		}
	}

	id := uuid.NewString()
	_, err = tx.Exec(
		`INSERT INTO scenarios (id, name, allocation_overrides, return_overrides, monthly_contribution, horizon_months, is_primary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, overrides.Name, allocJSON, retJSON, contribution, horizon, boolToInt(overrides.Primary), time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert scenario: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Get fetches a scenario by id.
func (s *ScenarioStore) Get(id string) (*SavedScenario, error) {
	row := s.db.QueryRow(selectColumns+` FROM scenarios WHERE id = ?`, id)
	return scanScenario(row)
}

// ByName fetches a scenario by its unique name.
func (s *ScenarioStore) ByName(name string) (*SavedScenario, error) {
	row := s.db.QueryRow(selectColumns+` FROM scenarios WHERE name = ?`, name)
	return scanScenario(row)
}

// Primary fetches the scenario flagged primary, or nil when none is.
func (s *ScenarioStore) Primary() (*SavedScenario, error) {
	row := s.db.QueryRow(selectColumns + ` FROM scenarios WHERE is_primary = 1`)
	saved, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return saved, err
}

// List returns all saved scenarios, oldest first.
func (s *ScenarioStore) List() ([]SavedScenario, error) {
	rows, err := s.db.Query(selectColumns + ` FROM scenarios ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []SavedScenario
	for rows.Next() {
		saved, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *saved)
	}
	return scenarios, rows.Err()
}

// SetPrimary flags the given scenario as primary and clears the flag from
// every other scenario.
func (s *ScenarioStore) SetPrimary(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE scenarios SET is_primary = 0 WHERE is_primary = 1`); err != nil {
		return fmt.Errorf("clear primary: %w", err)
	}
	res, err := tx.Exec(`UPDATE scenarios SET is_primary = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("set primary: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("scenario %s not found", id)
	}
	return tx.Commit()
}

// Delete removes a scenario by id.
func (s *ScenarioStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("scenario %s not found", id)
	}
	return nil
}

// Close closes the underlying database.
func (s *ScenarioStore) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT id, name, allocation_overrides, return_overrides, monthly_contribution, horizon_months, is_primary, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (*SavedScenario, error) {
	var (
		saved        SavedScenario
		allocJSON    sql.NullString
		retJSON      sql.NullString
		contribution sql.NullString
		horizon      sql.NullInt64
		primary      int
		createdAt    int64
	)
	if err := row.Scan(&saved.ID, &saved.Overrides.Name, &allocJSON, &retJSON, &contribution, &horizon, &primary, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan scenario: %w", err)
	}

	if allocJSON.Valid {
		if err := json.Unmarshal([]byte(allocJSON.String), &saved.Overrides.AllocationOverrides); err != nil {
			return nil, fmt.Errorf("decode allocation overrides: %w", err)
		}
	}
	if retJSON.Valid {
		if err := json.Unmarshal([]byte(retJSON.String), &saved.Overrides.ReturnOverrides); err != nil {
			return nil, fmt.Errorf("decode return overrides: %w", err)
		}
	}
	if contribution.Valid {
		d, err := decimal.NewFromString(contribution.String)
		if err != nil {
			return nil, fmt.Errorf("decode monthly contribution: %w", err)
		}
		saved.Overrides.MonthlyContribution = &d
	}
	if horizon.Valid {
		h := int(horizon.Int64)
		saved.Overrides.HorizonMonths = &h
	}
	saved.Overrides.Primary = primary == 1
	saved.CreatedAt = time.Unix(createdAt, 0)
	return &saved, nil
}

// marshalOverrideMaps encodes the optional maps as JSON blobs, keeping NULL
// for absent maps so a loaded scenario round-trips to the same nil fields.
func marshalOverrideMaps(overrides domain.ScenarioOverrides) (sql.NullString, sql.NullString, error) {
	var allocJSON, retJSON sql.NullString
	if overrides.AllocationOverrides != nil {
		b, err := json.Marshal(overrides.AllocationOverrides)
		if err != nil {
			return allocJSON, retJSON, fmt.Errorf("encode allocation overrides: %w", err)
		}
		allocJSON = sql.NullString{String: string(b), Valid: true}
	}
	if overrides.ReturnOverrides != nil {
		b, err := json.Marshal(overrides.ReturnOverrides)
		if err != nil {
			return allocJSON, retJSON, fmt.Errorf("encode return overrides: %w", err)
		}
		retJSON = sql.NullString{String: string(b), Valid: true}
	}
	return allocJSON, retJSON, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
