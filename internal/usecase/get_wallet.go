package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/collinsceleb/idempotent-wallet/internal/domain"
	"github.com/collinsceleb/idempotent-wallet/internal/gateway"
)

type GetWalletUseCase struct {
	walletRepository gateway.WalletRepository
}

func NewGetWallet(walletRepo gateway.WalletRepository) *GetWalletUseCase {
	return &GetWalletUseCase{walletRepository: walletRepo}
}

func (u *GetWalletUseCase) Execute(ctx context.Context, walletID string) (*domain.Wallet, error) {
	wallet, err := u.walletRepository.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return wallet, nil
}
