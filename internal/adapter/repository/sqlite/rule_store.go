package sqlite

import (
	"context"
	"database/sql"

	"github.com/frank113/FinDash/internal/domain"
)

// RuleStore implements usecase.RuleStore.
type RuleStore struct {
	db *sql.DB
}

// NewRuleStore creates a new RuleStore.
func NewRuleStore(db *sql.DB) *RuleStore {
	return &RuleStore{db: db}
}

// Create creates a new payee rule.
func (s *RuleStore) Create(ctx context.Context, rule *domain.Rule) error {
	query := `
		INSERT INTO rules (id, pattern, category_id, created_at)
		VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rule.ID, rule.Pattern, rule.CategoryID, formatTime(rule.CreatedAt))
	return err
}

// List lists all rules in creation order, the order they are applied in.
func (s *RuleStore) List(ctx context.Context) ([]*domain.Rule, error) {
	query := `
		SELECT id, pattern, category_id, created_at
		FROM rules
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.Rule
	for rows.Next() {
		var (
			r         domain.Rule
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Pattern, &r.CategoryID, &createdAt); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		rules = append(rules, &r)
	}
	return rules, rows.Err()
}

// Delete deletes a rule.
func (s *RuleStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// DeleteByCategory deletes every rule targeting a category.
func (s *RuleStore) DeleteByCategory(ctx context.Context, categoryID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE category_id = ?`, categoryID)
	return err
}
