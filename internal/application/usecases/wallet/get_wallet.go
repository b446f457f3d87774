package wallet

import (
	"context"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/google/uuid"
)

// GetWalletUseCase serves GET /wallets/{id} with ownership enforcement:
// a wallet that exists but belongs to another customer is forbidden, not
// hidden.
type GetWalletUseCase struct {
	customerRepo ports.CustomerRepository
	walletRepo   ports.WalletRepository
}

// NewGetWalletUseCase wires the use case.
func NewGetWalletUseCase(customerRepo ports.CustomerRepository, walletRepo ports.WalletRepository) *GetWalletUseCase {
	return &GetWalletUseCase{customerRepo: customerRepo, walletRepo: walletRepo}
}

// Execute loads the wallet for its owner.
func (uc *GetWalletUseCase) Execute(ctx context.Context, query dtos.GetWalletQuery) (*dtos.WalletDTO, error) {
	walletID, err := uuid.Parse(query.WalletID)
	if err != nil {
		return nil, errors.ValidationError{Field: "wallet_id", Message: "invalid UUID format"}
	}

	customerID, err := uc.customerRepo.ResolveCustomerID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.FindByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if !wallet.IsOwnedBy(customerID) {
		return nil, errors.ErrNotWalletOwner
	}

	dto := dtos.ToWalletDTO(wallet)
	return &dto, nil
}

// ListMyWalletsUseCase serves GET /wallets/me.
type ListMyWalletsUseCase struct {
	customerRepo ports.CustomerRepository
	walletRepo   ports.WalletRepository
}

// NewListMyWalletsUseCase wires the use case.
func NewListMyWalletsUseCase(customerRepo ports.CustomerRepository, walletRepo ports.WalletRepository) *ListMyWalletsUseCase {
	return &ListMyWalletsUseCase{customerRepo: customerRepo, walletRepo: walletRepo}
}

// Execute lists the caller's wallets.
func (uc *ListMyWalletsUseCase) Execute(ctx context.Context, userID string) ([]dtos.WalletDTO, error) {
	customerID, err := uc.customerRepo.ResolveCustomerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	wallets, err := uc.walletRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return dtos.ToWalletDTOList(wallets), nil
}
