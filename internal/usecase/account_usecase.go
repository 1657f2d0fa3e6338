package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/statement"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountStore AccountStore
	idGen        IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountStore AccountStore, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountStore: accountStore,
		idGen:        idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name        string
	Institution string
}

// CreateAccount creates a new account. The institution must name a
// registered statement schema so imports against the account can be
// parsed.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	schema, err := statement.Resolve(input.Institution)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:          uc.idGen.Generate(),
		Name:        strings.TrimSpace(input.Name),
		Institution: schema.Institution,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.accountStore.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountStore.GetByID(ctx, id)
}

// ListAccounts lists all accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountStore.List(ctx)
}

// Institutions lists the statement schemas accounts can be created
// against.
func (uc *AccountUseCase) Institutions() []string {
	return statement.Institutions()
}
