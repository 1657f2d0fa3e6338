package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frank113/FinDash/internal/domain"
)

// RuleStore implements usecase.RuleStore.
type RuleStore struct {
	pool *pgxpool.Pool
}

// NewRuleStore creates a new RuleStore.
func NewRuleStore(pool *pgxpool.Pool) *RuleStore {
	return &RuleStore{pool: pool}
}

// Create creates a new payee rule.
func (s *RuleStore) Create(ctx context.Context, rule *domain.Rule) error {
	query := `
		INSERT INTO rules (id, pattern, category_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, query,
		rule.ID, rule.Pattern, rule.CategoryID, rule.CreatedAt)
	return err
}

// List lists all rules in creation order, the order they are applied in.
func (s *RuleStore) List(ctx context.Context) ([]*domain.Rule, error) {
	query := `
		SELECT id, pattern, category_id, created_at
		FROM rules
		ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.Rule
	for rows.Next() {
		var r domain.Rule
		if err := rows.Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, &r)
	}
	return rules, rows.Err()
}

// Delete deletes a rule.
func (s *RuleStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// DeleteByCategory deletes every rule targeting a category. Deleting
// none is not an error.
func (s *RuleStore) DeleteByCategory(ctx context.Context, categoryID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM rules WHERE category_id = $1`, categoryID)
	return err
}
