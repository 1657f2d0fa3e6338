package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frank113/FinDash/internal/domain"
)

// CategoryStore implements usecase.CategoryStore.
type CategoryStore struct {
	pool *pgxpool.Pool
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(pool *pgxpool.Pool) *CategoryStore {
	return &CategoryStore{pool: pool}
}

// Create creates a new category. Names are unique case-insensitively.
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, monthly_goal, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, query,
		category.ID, category.Name, category.MonthlyGoal, category.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCategory
	}
	return err
}

// GetByID retrieves a category by ID.
func (s *CategoryStore) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `
		SELECT id, name, monthly_goal, created_at
		FROM categories
		WHERE id = $1`

	var c domain.Category
	err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.MonthlyGoal, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List lists all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, monthly_goal, created_at
		FROM categories
		ORDER BY name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.MonthlyGoal, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Update updates a category's name and goal.
func (s *CategoryStore) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories SET name = $1, monthly_goal = $2 WHERE id = $3`

	tag, err := s.pool.Exec(ctx, query, category.Name, category.MonthlyGoal, category.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCategory
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Delete deletes a category. Referencing transactions fall back to
// uncategorized through the ON DELETE SET NULL constraint, matching
// what the usecase already wrote to the ledger.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
