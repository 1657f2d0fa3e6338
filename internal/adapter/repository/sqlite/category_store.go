package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frank113/FinDash/internal/domain"
)

// CategoryStore implements usecase.CategoryStore.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// Create creates a new category. Names are unique case-insensitively.
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, monthly_goal, created_at)
		VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		category.ID, category.Name, category.MonthlyGoal, formatTime(category.CreatedAt))
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
		WHERE id = ?`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

// List lists all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, monthly_goal, created_at
		FROM categories
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Update updates a category's name and goal.
func (s *CategoryStore) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories SET name = ?, monthly_goal = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query, category.Name, category.MonthlyGoal, category.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCategory
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Delete deletes a category.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		c         domain.Category
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.MonthlyGoal, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}
