package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/events"
)

// LoginUseCase exchanges credentials for a token pair and announces the
// login. The subject is resolved by username so the event carries it even
// though the password grant response does not.
type LoginUseCase struct {
	identity  ports.IdentityGateway
	publisher ports.EventPublisher
	uow       ports.UnitOfWork
	logger    *slog.Logger
}

// NewLoginUseCase wires the use case.
func NewLoginUseCase(
	identity ports.IdentityGateway,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		identity:  identity,
		publisher: publisher,
		uow:       uow,
		logger:    logger,
	}
}

// Execute performs the login.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd dtos.LoginCommand) (*dtos.TokenDTO, error) {
	tokens, err := uc.identity.PasswordGrant(ctx, cmd.Username, cmd.Password)
	if err != nil {
		return nil, err
	}

	subject, err := uc.identity.ResolveSubject(ctx, cmd.Username)
	if err != nil {
		// The grant already succeeded; a failed lookup only costs the event.
		uc.logger.Warn("subject lookup failed after login", "username", cmd.Username, "error", err)
	} else {
		err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
			if err := uc.publisher.Publish(txCtx, events.NewUserLogin(subject, cmd.Username)); err != nil {
				return fmt.Errorf("failed to publish USER_LOGIN: %w", err)
			}
			return nil
		})
		if err != nil {
			uc.logger.Warn("login event not recorded", "username", cmd.Username, "error", err)
		}
	}

	return &dtos.TokenDTO{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}
