package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/events"
)

// LogoutUseCase revokes the refresh token at the provider and announces
// the logout. Both steps are best effort: logout always succeeds for the
// caller.
type LogoutUseCase struct {
	identity  ports.IdentityGateway
	publisher ports.EventPublisher
	uow       ports.UnitOfWork
	logger    *slog.Logger
}

// NewLogoutUseCase wires the use case.
func NewLogoutUseCase(
	identity ports.IdentityGateway,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *LogoutUseCase {
	return &LogoutUseCase{
		identity:  identity,
		publisher: publisher,
		uow:       uow,
		logger:    logger,
	}
}

// Execute performs the logout for the authenticated subject.
func (uc *LogoutUseCase) Execute(ctx context.Context, subject string, cmd dtos.LogoutCommand) (*dtos.MessageDTO, error) {
	if err := uc.identity.Revoke(ctx, cmd.RefreshToken); err != nil {
		uc.logger.Warn("token revocation failed", "subject", subject, "error", err)
	}

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := uc.publisher.Publish(txCtx, events.NewUserLogout(subject, "")); err != nil {
			return fmt.Errorf("failed to publish USER_LOGOUT: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("logout event not recorded", "subject", subject, "error", err)
	}

	return &dtos.MessageDTO{Message: "Logged out successfully"}, nil
}
