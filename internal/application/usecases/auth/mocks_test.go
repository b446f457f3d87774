package auth

import (
	"context"
	"io"
	"log/slog"

	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/events"
)

// Shared function-field mocks for the auth use case tests.

type mockIdentityGateway struct {
	createUserFunc     func(ctx context.Context, username, email, password string) (string, error)
	passwordGrantFunc  func(ctx context.Context, username, password string) (*ports.TokenPair, error)
	refreshFunc        func(ctx context.Context, refreshToken string) (*ports.TokenPair, error)
	revokeFunc         func(ctx context.Context, refreshToken string) error
	resolveSubjectFunc func(ctx context.Context, username string) (string, error)
}

func (m *mockIdentityGateway) CreateUser(ctx context.Context, username, email, password string) (string, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, username, email, password)
	}
	return "subject-1", nil
}

func (m *mockIdentityGateway) PasswordGrant(ctx context.Context, username, password string) (*ports.TokenPair, error) {
	if m.passwordGrantFunc != nil {
		return m.passwordGrantFunc(ctx, username, password)
	}
	return &ports.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 300}, nil
}

func (m *mockIdentityGateway) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return &ports.TokenPair{AccessToken: "access-2", ExpiresIn: 300}, nil
}

func (m *mockIdentityGateway) Revoke(ctx context.Context, refreshToken string) error {
	if m.revokeFunc != nil {
		return m.revokeFunc(ctx, refreshToken)
	}
	return nil
}

func (m *mockIdentityGateway) ResolveSubject(ctx context.Context, username string) (string, error) {
	if m.resolveSubjectFunc != nil {
		return m.resolveSubjectFunc(ctx, username)
	}
	return "subject-1", nil
}

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, event events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, event)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, event)
	}
	return nil
}

func (m *mockEventPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, batch...)
	return nil
}

type mockUoW struct {
	executeFunc func(ctx context.Context, fn func(context.Context) error) error
}

func (m *mockUoW) Execute(ctx context.Context, fn func(context.Context) error) error {
	if m.executeFunc != nil {
		return m.executeFunc(ctx, fn)
	}
	return fn(ctx)
}

func (m *mockUoW) ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	return fn(ctx)
}

func (m *mockUoW) ExecuteWithRetry(ctx context.Context, maxRetries int, fn func(context.Context) error) error {
	return fn(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
