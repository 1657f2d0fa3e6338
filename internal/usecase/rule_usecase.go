package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frank113/FinDash/internal/domain"
)

// RuleUseCase handles payee rule management. Rules only shape future
// imports, so no report invalidation happens here.
type RuleUseCase struct {
	ruleStore     RuleStore
	categoryStore CategoryStore
	idGen         IDGenerator
}

// NewRuleUseCase creates a new RuleUseCase.
func NewRuleUseCase(ruleStore RuleStore, categoryStore CategoryStore, idGen IDGenerator) *RuleUseCase {
	return &RuleUseCase{
		ruleStore:     ruleStore,
		categoryStore: categoryStore,
		idGen:         idGen,
	}
}

// CreateRuleInput represents input for creating a payee rule.
type CreateRuleInput struct {
	Pattern    string
	CategoryID string
}

// CreateRule creates a new payee rule targeting an existing category.
func (uc *RuleUseCase) CreateRule(ctx context.Context, input CreateRuleInput) (*domain.Rule, error) {
	if err := domain.ValidateRulePattern(input.Pattern); err != nil {
		return nil, err
	}
	if _, err := uc.categoryStore.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, input.CategoryID)
		}
		return nil, err
	}

	rule := &domain.Rule{
		ID:         uc.idGen.Generate(),
		Pattern:    strings.TrimSpace(input.Pattern),
		CategoryID: input.CategoryID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.ruleStore.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// ListRules lists all payee rules.
func (uc *RuleUseCase) ListRules(ctx context.Context) ([]*domain.Rule, error) {
	return uc.ruleStore.List(ctx)
}

// DeleteRule deletes a payee rule.
func (uc *RuleUseCase) DeleteRule(ctx context.Context, id string) error {
	return uc.ruleStore.Delete(ctx, id)
}
