package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type testProvider struct {
	id               string
	beginAuthErr     error
	exchangeErr      error
	exchangeCalls    int
	lastBeginAuth    BeginAuthRequest
	lastExchangeCode string
	credential       Credential
	items            FetchItemsResult
	listErr          error
	listCalls        int
	lastListLimit    int
}

func (p *testProvider) ID() string { return p.id }

func (p *testProvider) BeginAuth(_ context.Context, req BeginAuthRequest) (BeginAuthResponse, error) {
	p.lastBeginAuth = req
	if p.beginAuthErr != nil {
		return BeginAuthResponse{}, p.beginAuthErr
	}
	authURL := "https://provider.example/oauth/authorize?state=" + url.QueryEscape(req.State)
	return BeginAuthResponse{URL: authURL, State: req.State}, nil
}

func (p *testProvider) ExchangeCode(_ context.Context, req ExchangeCodeRequest) (Credential, error) {
	p.exchangeCalls++
	p.lastExchangeCode = req.Code
	if p.exchangeErr != nil {
		return Credential{}, p.exchangeErr
	}
	if strings.TrimSpace(p.credential.AccessToken) != "" {
		return p.credential, nil
	}
	return Credential{
		TokenType:    "bearer",
		AccessToken:  "access-" + req.Code,
		RefreshToken: "refresh-" + req.Code,
		ExpiresIn:    1800,
		Scope:        "crm.objects.contacts.read",
	}, nil
}

func (p *testProvider) ListItems(_ context.Context, cred Credential, limit int) (FetchItemsResult, error) {
	p.listCalls++
	p.lastListLimit = limit
	if strings.TrimSpace(cred.AccessToken) == "" {
		return FetchItemsResult{}, fmt.Errorf("core: credential access token is required")
	}
	if p.listErr != nil {
		return FetchItemsResult{}, p.listErr
	}
	return p.items, nil
}

type failingStore struct {
	putErr     error
	consumeErr error
	inner      *MemoryEphemeralStore
}

func newFailingStore() *failingStore {
	return &failingStore{inner: NewMemoryEphemeralStore(time.Minute)}
}

func (s *failingStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.putErr != nil {
		return s.putErr
	}
	return s.inner.Put(ctx, key, value, ttl)
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, key)
}

func (s *failingStore) Consume(ctx context.Context, key string) ([]byte, error) {
	if s.consumeErr != nil {
		return nil, s.consumeErr
	}
	return s.inner.Consume(ctx, key)
}

func (s *failingStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func newTestService(provider Provider, store EphemeralStore) (*Service, error) {
	registry := NewProviderRegistry()
	if provider != nil {
		if err := registry.Register(provider); err != nil {
			return nil, err
		}
	}
	options := []Option{WithRegistry(registry)}
	if store != nil {
		options = append(options, WithEphemeralStore(store))
	}
	return NewService(Config{DefaultProvider: "hubspot"}, options...)
}
