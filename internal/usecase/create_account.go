package usecase

import (
	"context"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

type CreateAccountInput struct {
	InitialBalance money.Decimal
}

type CreateAccountUseCase struct {
	accountRepo gateway.AccountRepository
}

func NewCreateAccount(accountRepo gateway.AccountRepository) *CreateAccountUseCase {
	return &CreateAccountUseCase{accountRepo: accountRepo}
}

func (uc *CreateAccountUseCase) Execute(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if money.IsNegative(input.InitialBalance) {
		return nil, domain.ErrInvalidTransfer
	}
	return uc.accountRepo.Create(ctx, input.InitialBalance)
}
