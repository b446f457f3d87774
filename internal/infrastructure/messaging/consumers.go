package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/events"
)

// The consumer adapters decode raw bus payloads and dispatch to the
// owning use case. Two failure classes are kept apart: a payload that
// cannot be decoded will never succeed on redelivery, so it is logged
// and dropped; a use case error propagates so the bus redelivers.

type CustomerProvisioner interface {
	Execute(ctx context.Context, event *events.UserEvent) error
}

type WalletProvisioner interface {
	Execute(ctx context.Context, event *events.CustomerCreated) error
}

type LimitRaiser interface {
	Execute(ctx context.Context, event *events.KYCEvent) error
}

type BalanceProjector interface {
	Execute(ctx context.Context, event *events.TransactionEvent) error
}

// UserEventsHandler provisions a customer profile for every
// USER_REGISTERED; login and logout events pass through unhandled.
func UserEventsHandler(provisioner CustomerProvisioner, logger *slog.Logger) ports.MessageHandler {
	return func(ctx context.Context, topic string, payload []byte) error {
		var event events.UserEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Error("dropping undecodable user event", "topic", topic, "error", err)
			return nil
		}
		if event.Type != events.EventTypeUserRegistered {
			return nil
		}
		return provisioner.Execute(ctx, &event)
	}
}

// CustomerEventsHandler opens the default wallet for every
// CUSTOMER_CREATED.
func CustomerEventsHandler(provisioner WalletProvisioner, logger *slog.Logger) ports.MessageHandler {
	return func(ctx context.Context, topic string, payload []byte) error {
		var event events.CustomerCreated
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Error("dropping undecodable customer event", "topic", topic, "error", err)
			return nil
		}
		if event.Type != events.EventTypeCustomerCreated {
			return nil
		}
		return provisioner.Execute(ctx, &event)
	}
}

// KYCEventsHandler raises wallet limits on KYC_VERIFIED; initiation and
// rejection events need no action here.
func KYCEventsHandler(raiser LimitRaiser, logger *slog.Logger) ports.MessageHandler {
	return func(ctx context.Context, topic string, payload []byte) error {
		var event events.KYCEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Error("dropping undecodable KYC event", "topic", topic, "error", err)
			return nil
		}
		if event.Type != events.EventTypeKYCVerified {
			return nil
		}
		return raiser.Execute(ctx, &event)
	}
}

// TransactionEventsHandler feeds the balance projector. The projector
// itself ignores everything but TRANSACTION_COMPLETED.
func TransactionEventsHandler(projector BalanceProjector, logger *slog.Logger) ports.MessageHandler {
	return func(ctx context.Context, topic string, payload []byte) error {
		var event events.TransactionEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Error("dropping undecodable transaction event", "topic", topic, "error", err)
			return nil
		}
		return projector.Execute(ctx, &event)
	}
}
