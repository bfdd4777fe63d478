package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
)

type GetAccountUseCase struct {
	accountRepo gateway.AccountRepository
}

func NewGetAccount(accountRepo gateway.AccountRepository) *GetAccountUseCase {
	return &GetAccountUseCase{accountRepo: accountRepo}
}

func (u *GetAccountUseCase) Execute(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}
