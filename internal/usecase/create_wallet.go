package usecase

import (
	"context"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
	"github.com/collinsceleb/idempotent-wallet/internal/money"
)

type CreateWalletInput struct {
	InitialBalance money.Decimal
}

type CreateWalletOutput struct {
	Wallet *domain.Wallet
}

type CreateWalletUseCase struct {
	walletRepo gateway.WalletRepository
}

func NewCreateWallet(walletRepo gateway.WalletRepository) *CreateWalletUseCase {
	return &CreateWalletUseCase{walletRepo: walletRepo}
}

// Execute is a single-insert operation; it needs no explicit transaction
// scope.
func (uc *CreateWalletUseCase) Execute(ctx context.Context, input CreateWalletInput) (*CreateWalletOutput, error) {
	if money.IsNegative(input.InitialBalance) {
		return nil, domain.ErrInvalidTransfer
	}

	wallet, err := uc.walletRepo.Create(ctx, input.InitialBalance)
	if err != nil {
		return nil, err
	}

	return &CreateWalletOutput{Wallet: wallet}, nil
}
