package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/dumpscrub/internal/types"
)

/*
 * Persistent rule store.
 *
 * Rule sets are immutable snapshots of a RawRules catalog: pushing writes
 * a new set under a fresh UUIDv7 id, never updating an old one, so a
 * running anonymization is never affected by a concurrent push. UUIDv7
 * ids are time-ordered, which makes "latest" a plain ORDER BY on the id.
 *
 * Templates are stored raw. Compilation (and therefore template
 * diagnostics) always happens in the process that runs the dump, so a
 * template that fails to compile cleanly still only degrades, exactly as
 * with file-based rules.
 */

// RuleStore reads and writes rule sets via named queries.
type RuleStore struct {
	q  *Queries
	db *sqlx.DB
}

// NewRuleStore creates a rule store over an open database.
func NewRuleStore(database *sqlx.DB) (*RuleStore, error) {
	q, err := LoadQueries(database)
	if err != nil {
		return nil, err
	}
	return &RuleStore{q: q, db: database}, nil
}

// ruleTemplateRow mirrors one rule_templates row.
type ruleTemplateRow struct {
	TableName  string `db:"table_name"`
	ColumnName string `db:"column_name"`
	Template   string `db:"template"`
}

// Push stores raw rules as a new rule set and returns its id. The set row
// and its templates commit in one transaction: a half-written set would
// become the latest set and serve an incomplete catalog, so a failed push
// must leave no trace.
func (s *RuleStore) Push(raw types.RawRules) (types.RuleSetID, error) {
	id := types.NewRuleSetID()

	tx, err := s.db.Beginx()
	if err != nil {
		return "", fmt.Errorf("failed to begin rule set transaction: %w", err)
	}

	if _, err := s.q.ExecTx(tx, "insert-rule-set", string(id), time.Now().UTC().Format(time.RFC3339)); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("failed to insert rule set: %w", err)
	}

	for table, columns := range raw {
		for column, template := range columns {
			if _, err := s.q.ExecTx(tx, "insert-rule-template", string(id), table, column, template); err != nil {
				tx.Rollback()
				return "", fmt.Errorf("failed to insert rule template %s.%s: %w", table, column, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit rule set: %w", err)
	}
	return id, nil
}

// LoadLatest returns the most recently pushed rule set.
func (s *RuleStore) LoadLatest() (types.RawRules, types.RuleSetID, error) {
	var idStr string
	if err := s.q.Get("latest-rule-set", &idStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", types.ErrNoRuleSets
		}
		return nil, "", fmt.Errorf("failed to query latest rule set: %w", err)
	}

	id := types.RuleSetID(idStr)
	raw, err := s.Load(id)
	if err != nil {
		return nil, "", err
	}
	return raw, id, nil
}

// Load returns the raw rules of one rule set.
func (s *RuleStore) Load(id types.RuleSetID) (types.RawRules, error) {
	var count int
	if err := s.q.Get("rule-set-exists", &count, string(id)); err != nil {
		return nil, fmt.Errorf("failed to check rule set: %w", err)
	}
	if count == 0 {
		return nil, types.ErrRuleSetNotFound
	}

	var rows []ruleTemplateRow
	if err := s.q.Select("list-rule-templates", &rows, string(id)); err != nil {
		return nil, fmt.Errorf("failed to load rule templates: %w", err)
	}

	raw := types.RawRules{}
	for _, row := range rows {
		if raw[row.TableName] == nil {
			raw[row.TableName] = make(map[string]string)
		}
		raw[row.TableName][row.ColumnName] = row.Template
	}
	return raw, nil
}
