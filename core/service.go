package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service coordinates the OAuth credential lifecycle: it mints and stores
// one-shot state, exchanges callback codes for tokens, parks the resulting
// credential for a single pickup, and fans item fetches out to the provider.
type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	store             EphemeralStore
	registry          Registry
	credentialCodec   CredentialCodec
}

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	PersistenceClient any
	RepositoryFactory any
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	EphemeralStore    EphemeralStore
	Registry          Registry
	CredentialCodec   CredentialCodec
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("crm-connect", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("crm-connect"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.registry == nil {
		builder.registry = NewProviderRegistry()
	}
	if builder.credentialCodec == nil {
		builder.credentialCodec = JSONCredentialCodec{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.store == nil && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			storeProvider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			if storeProvider != nil {
				builder.store = storeProvider.EphemeralStore()
			}
		} else if storeProvider, ok := builder.repositoryFactory.(StoreProvider); ok {
			builder.store = storeProvider.EphemeralStore()
		}
	}
	if builder.store == nil {
		builder.store = NewMemoryEphemeralStore(finalConfig.StateTTL())
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		store:             builder.store,
		registry:          builder.registry,
		credentialCodec:   builder.credentialCodec,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            s.logger,
		LoggerProvider:    s.loggerProvider,
		MetricsRecorder:   s.metricsRecorder,
		ErrorFactory:      s.errorFactory,
		ErrorMapper:       s.errorMapper,
		PersistenceClient: s.persistenceClient,
		RepositoryFactory: s.repositoryFactory,
		ConfigProvider:    s.configProvider,
		OptionsResolver:   s.optionsResolver,
		EphemeralStore:    s.store,
		Registry:          s.registry,
		CredentialCodec:   s.credentialCodec,
	}
}

// Initiate mints a state payload bound to the caller's scope, asks the
// provider for its consent URL, and stores the payload for the callback to
// consume. The stored value and the `state` query parameter are the same
// serialized payload.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (response BeginAuthResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"provider_id": req.ProviderID,
		"user_id":     req.Scope.UserID,
		"org_id":      req.Scope.OrgID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "initiate", err, fields)
	}()

	if err = req.Scope.Validate(); err != nil {
		err = s.mapError(err)
		return BeginAuthResponse{}, err
	}
	provider, err := s.resolveProvider(req.ProviderID)
	if err != nil {
		return BeginAuthResponse{}, err
	}

	token, err := generateStateToken()
	if err != nil {
		err = s.mapError(err)
		return BeginAuthResponse{}, err
	}
	state, err := EncodeStatePayload(StatePayload{
		Token:  token,
		UserID: strings.TrimSpace(req.Scope.UserID),
		OrgID:  strings.TrimSpace(req.Scope.OrgID),
	})
	if err != nil {
		err = s.mapError(err)
		return BeginAuthResponse{}, err
	}

	response, err = provider.BeginAuth(ctx, BeginAuthRequest{
		Scope:       req.Scope,
		State:       state,
		RedirectURI: req.RedirectURI,
	})
	if err != nil {
		err = s.mapError(err)
		return BeginAuthResponse{}, err
	}
	if strings.TrimSpace(response.State) == "" {
		response.State = state
	}

	key, err := StateKey(req.Scope)
	if err != nil {
		err = s.mapError(err)
		return BeginAuthResponse{}, err
	}
	if err = s.store.Put(ctx, key, []byte(response.State), s.config.StateTTL()); err != nil {
		err = s.mapError(goerrors.Wrap(err, goerrors.CategoryInternal, "core: store oauth state").
			WithTextCode(ServiceErrorInternal))
		return BeginAuthResponse{}, err
	}

	return response, nil
}

// CompleteCallback validates the returned state against the stored copy,
// exchanges the authorization code, and parks the credential for one pickup.
// The stored state is consumed before the token endpoint is contacted, so a
// replayed or forged callback never triggers an exchange.
func (s *Service) CompleteCallback(ctx context.Context, req CompleteCallbackRequest) (completion CallbackCompletion, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"provider_id": req.ProviderID,
	}
	defer func() {
		if completion.Scope.UserID != "" {
			fields["user_id"] = completion.Scope.UserID
			fields["org_id"] = completion.Scope.OrgID
		}
		s.observeOperation(ctx, startedAt, "complete_callback", err, fields)
	}()

	if errorCode := strings.TrimSpace(req.ErrorCode); errorCode != "" {
		s.discardPendingState(ctx, req.State)
		message := fmt.Sprintf("core: authorization denied: %s", errorCode)
		if description := strings.TrimSpace(req.ErrorDescription); description != "" {
			message = fmt.Sprintf("%s: %s", message, description)
		}
		err = s.mapError(errors.New(message))
		return CallbackCompletion{}, err
	}

	payload, err := DecodeStatePayload(req.State)
	if err != nil {
		err = s.mapError(err)
		return CallbackCompletion{}, err
	}
	scope := payload.Scope()
	if err = scope.Validate(); err != nil {
		err = s.mapError(err)
		return CallbackCompletion{}, err
	}
	fields["user_id"] = scope.UserID
	fields["org_id"] = scope.OrgID

	stateKey, err := StateKey(scope)
	if err != nil {
		err = s.mapError(err)
		return CallbackCompletion{}, err
	}
	stored, err := s.store.Consume(ctx, stateKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			err = s.mapError(fmt.Errorf("core: oauth state not found or already used"))
			return CallbackCompletion{}, err
		}
		err = s.mapError(goerrors.Wrap(err, goerrors.CategoryInternal, "core: consume oauth state").
			WithTextCode(ServiceErrorInternal))
		return CallbackCompletion{}, err
	}
	if string(stored) != strings.TrimSpace(req.State) {
		err = s.mapError(fmt.Errorf("core: oauth state mismatch"))
		return CallbackCompletion{}, err
	}

	if strings.TrimSpace(req.Code) == "" {
		err = s.mapError(fmt.Errorf("core: authorization code is required"))
		return CallbackCompletion{}, err
	}
	provider, err := s.resolveProvider(req.ProviderID)
	if err != nil {
		return CallbackCompletion{}, err
	}

	credential, err := provider.ExchangeCode(ctx, ExchangeCodeRequest{
		Code:        strings.TrimSpace(req.Code),
		RedirectURI: req.RedirectURI,
	})
	if err != nil {
		// Exchange failures keep the token-exchange code even when the
		// provider's error detail mentions "state".
		err = s.mapError(goerrors.Wrap(err, goerrors.CategoryOperation, "core: token exchange failed").
			WithTextCode(ServiceErrorTokenExchangeFailed))
		return CallbackCompletion{}, err
	}
	if err = credential.Validate(); err != nil {
		err = s.mapError(fmt.Errorf("core: token response incomplete: %w", err))
		return CallbackCompletion{}, err
	}

	encoded, err := s.credentialCodec.Encode(credential)
	if err != nil {
		err = s.mapError(err)
		return CallbackCompletion{}, err
	}
	credentialKey, err := CredentialKey(scope)
	if err != nil {
		err = s.mapError(err)
		return CallbackCompletion{}, err
	}
	if err = s.store.Put(ctx, credentialKey, encoded, s.config.CredentialTTL()); err != nil {
		err = s.mapError(goerrors.Wrap(err, goerrors.CategoryInternal, "core: store credential").
			WithTextCode(ServiceErrorInternal))
		return CallbackCompletion{}, err
	}

	completion = CallbackCompletion{
		ProviderID: s.effectiveProviderID(req.ProviderID),
		Scope:      scope,
		StoredAt:   time.Now().UTC(),
	}
	return completion, nil
}

// RetrieveCredential hands the parked credential to its owner exactly once.
// The read and the delete are a single store operation, so a second caller
// observes not-found rather than a stale token.
func (s *Service) RetrieveCredential(ctx context.Context, scope ScopeRef) (credential Credential, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"user_id": scope.UserID,
		"org_id":  scope.OrgID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "retrieve_credential", err, fields)
	}()

	if err = scope.Validate(); err != nil {
		err = s.mapError(err)
		return Credential{}, err
	}
	key, err := CredentialKey(scope)
	if err != nil {
		err = s.mapError(err)
		return Credential{}, err
	}
	payload, err := s.store.Consume(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			err = s.mapError(fmt.Errorf("core: credential not found for scope"))
			return Credential{}, err
		}
		err = s.mapError(goerrors.Wrap(err, goerrors.CategoryInternal, "core: consume credential").
			WithTextCode(ServiceErrorInternal))
		return Credential{}, err
	}
	credential, err = s.credentialCodec.Decode(payload)
	if err != nil {
		err = s.mapError(err)
		return Credential{}, err
	}
	return credential, nil
}

// FetchItems lists the provider's resource types with the supplied
// credential and returns whatever normalized successfully. Per-type
// failures ride along in the result; only input and authentication problems
// surface as the top-level error.
func (s *Service) FetchItems(ctx context.Context, req FetchItemsRequest) (result FetchItemsResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"provider_id": req.ProviderID,
	}
	defer func() {
		fields["item_count"] = len(result.Items)
		fields["resource_error_count"] = len(result.ResourceErrors)
		s.observeOperation(ctx, startedAt, "fetch_items", err, fields)
	}()

	if err = req.Credential.Validate(); err != nil {
		err = s.mapError(err)
		return FetchItemsResult{}, err
	}
	provider, err := s.resolveProvider(req.ProviderID)
	if err != nil {
		return FetchItemsResult{}, err
	}
	source, ok := provider.(ItemSource)
	if !ok {
		wrapped := s.errorFactory(
			fmt.Sprintf("provider %q does not list items", provider.ID()),
			goerrors.CategoryOperation,
		).WithTextCode(ServiceErrorResourceFetchFailed)
		err = wrapped.WithMetadata(map[string]any{"provider_id": provider.ID()})
		return FetchItemsResult{}, err
	}

	result, err = source.ListItems(ctx, req.Credential, s.config.FetchLimit())
	if err != nil {
		err = s.mapError(err)
		return FetchItemsResult{}, err
	}
	return result, nil
}

// discardPendingState clears the stored state after a provider-side denial
// so an attacker cannot reuse the round. Best effort; the denial is reported
// either way.
func (s *Service) discardPendingState(ctx context.Context, state string) {
	payload, err := DecodeStatePayload(state)
	if err != nil {
		return
	}
	key, err := StateKey(payload.Scope())
	if err != nil {
		return
	}
	_ = s.store.Delete(ctx, key)
}

func (s *Service) effectiveProviderID(providerID string) string {
	providerID = strings.TrimSpace(providerID)
	if providerID != "" {
		return providerID
	}
	return strings.TrimSpace(s.config.DefaultProvider)
}

func (s *Service) resolveProvider(providerID string) (Provider, error) {
	if s == nil || s.registry == nil {
		return nil, s.mapError(fmt.Errorf("core: registry unavailable"))
	}
	providerID = s.effectiveProviderID(providerID)
	provider, ok := s.registry.Get(providerID)
	if ok {
		return provider, nil
	}
	wrapped := s.errorFactory(
		fmt.Sprintf("provider %q is not registered", providerID),
		goerrors.CategoryNotFound,
	).WithTextCode(ServiceErrorProviderNotFound)
	return nil, wrapped.WithMetadata(map[string]any{"provider_id": providerID})
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

var _ ConnectService = (*Service)(nil)
