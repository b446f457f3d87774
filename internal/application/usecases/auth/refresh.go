package auth

import (
	"context"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
)

// RefreshUseCase exchanges a refresh token for a fresh access token.
type RefreshUseCase struct {
	identity ports.IdentityGateway
}

// NewRefreshUseCase wires the use case.
func NewRefreshUseCase(identity ports.IdentityGateway) *RefreshUseCase {
	return &RefreshUseCase{identity: identity}
}

// Execute performs the refresh. No event is emitted for refreshes.
func (uc *RefreshUseCase) Execute(ctx context.Context, cmd dtos.RefreshCommand) (*dtos.RefreshResultDTO, error) {
	tokens, err := uc.identity.Refresh(ctx, cmd.RefreshToken)
	if err != nil {
		return nil, err
	}

	return &dtos.RefreshResultDTO{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
	}, nil
}
