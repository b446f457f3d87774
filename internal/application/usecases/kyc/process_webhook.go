package kyc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/events"
)

// ProcessWebhookUseCase applies the provider's verdict to the customer's
// latest check. Terminal checks reject further webhooks; the verification
// timestamp is parsed from the callback with now() as the fallback.
type ProcessWebhookUseCase struct {
	customerRepo ports.CustomerRepository
	kycRepo      ports.KYCRepository
	publisher    ports.EventPublisher
	uow          ports.UnitOfWork
	logger       *slog.Logger
}

// NewProcessWebhookUseCase wires the use case.
func NewProcessWebhookUseCase(
	customerRepo ports.CustomerRepository,
	kycRepo ports.KYCRepository,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		customerRepo: customerRepo,
		kycRepo:      kycRepo,
		publisher:    publisher,
		uow:          uow,
		logger:       logger,
	}
}

// Execute processes one webhook callback.
func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, cmd dtos.KYCWebhookCommand) (*dtos.KYCStatusDTO, error) {
	var result *dtos.KYCStatusDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		check, err := uc.kycRepo.FindLatestByCustomer(txCtx, cmd.CustomerID)
		if err != nil {
			return err
		}

		at := parseVerifiedAt(cmd.VerifiedAt)

		switch cmd.Status {
		case string(entities.KYCStatusVerified):
			if err := check.Verify(at); err != nil {
				return err
			}
		case string(entities.KYCStatusRejected):
			if err := check.Reject(at, cmd.Reason); err != nil {
				return err
			}
		default:
			return errors.ValidationError{Field: "status", Message: "status must be VERIFIED or REJECTED"}
		}

		if err := uc.kycRepo.Save(txCtx, check); err != nil {
			return err
		}

		subject := ""
		if customer, err := uc.customerRepo.FindByID(txCtx, cmd.CustomerID); err == nil {
			subject = customer.UserID()
		}

		var event *events.KYCEvent
		if check.Status() == entities.KYCStatusVerified {
			event = events.NewKYCVerified(check, subject)
		} else {
			event = events.NewKYCRejected(check, subject)
		}
		if err := uc.publisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("failed to publish %s: %w", event.EventType(), err)
		}

		dto := dtos.ToKYCStatusDTO(check)
		result = &dto

		uc.logger.Info("kyc webhook processed", "customer_id", cmd.CustomerID, "status", check.Status())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func parseVerifiedAt(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	if at, err := time.Parse(time.RFC3339, raw); err == nil {
		return at.UTC()
	}
	return time.Now().UTC()
}
