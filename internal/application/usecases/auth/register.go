// Package auth contains the use cases fronting the external identity
// provider: register, login, refresh and logout. The provider owns all
// credentials; these use cases orchestrate it and emit user events.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/events"
)

// RegisterUseCase creates a user with the identity provider and announces
// the registration on the bus.
//
// Flow:
// 1. Create the user at the provider, get the subject back
// 2. Record USER_REGISTERED in the outbox
//
// The customer auto-provisioner consumes the event and creates the
// profile; registration itself never touches the customers table.
type RegisterUseCase struct {
	identity  ports.IdentityGateway
	publisher ports.EventPublisher
	uow       ports.UnitOfWork
	logger    *slog.Logger
}

// NewRegisterUseCase wires the use case.
func NewRegisterUseCase(
	identity ports.IdentityGateway,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *RegisterUseCase {
	return &RegisterUseCase{
		identity:  identity,
		publisher: publisher,
		uow:       uow,
		logger:    logger,
	}
}

// Execute registers the user.
func (uc *RegisterUseCase) Execute(ctx context.Context, cmd dtos.RegisterCommand) (*dtos.RegisterResultDTO, error) {
	subject, err := uc.identity.CreateUser(ctx, cmd.Username, cmd.Email, cmd.Password)
	if err != nil {
		return nil, err
	}

	// The outbox write needs a storage transaction even though registration
	// has no business row of its own.
	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		event := events.NewUserRegistered(subject, cmd.Username, cmd.Email)
		if err := uc.publisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("failed to publish USER_REGISTERED: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", "subject", subject, "username", cmd.Username)

	return &dtos.RegisterResultDTO{
		UserID:   subject,
		Username: cmd.Username,
		Email:    cmd.Email,
		Message:  "User registered successfully",
	}, nil
}
