package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// EphemeralStore is the short-TTL key/value collaborator used for OAuth
// state tokens and in-flight credentials. Keys are derived deterministically
// (see keys.go) so the two namespaces never collide. Consume is the one-shot
// primitive: implementations remove the key atomically with the read.
type EphemeralStore interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Consume(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type BeginAuthRequest struct {
	Scope       ScopeRef
	State       string
	RedirectURI string
}

type BeginAuthResponse struct {
	URL   string
	State string
}

type ExchangeCodeRequest struct {
	Code        string
	RedirectURI string
}

// Provider handles the OAuth conversation with one external service.
type Provider interface {
	ID() string
	BeginAuth(ctx context.Context, req BeginAuthRequest) (BeginAuthResponse, error)
	ExchangeCode(ctx context.Context, req ExchangeCodeRequest) (Credential, error)
}

// ItemSource lists the provider's resource types and maps each record into
// a canonical Item. Providers that expose data implement it alongside
// Provider; the service discovers it by assertion.
type ItemSource interface {
	ListItems(ctx context.Context, cred Credential, limit int) (FetchItemsResult, error)
}

type Registry interface {
	Register(provider Provider) error
	Get(providerID string) (Provider, bool)
	List() []Provider
}

// CredentialCodec serializes the transient credential for store transport.
type CredentialCodec interface {
	Format() string
	Encode(credential Credential) ([]byte, error)
	Decode(payload []byte) (Credential, error)
}

// StoreProvider exposes the stores a repository factory can build.
type StoreProvider interface {
	EphemeralStore() EphemeralStore
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type InitiateRequest struct {
	ProviderID  string
	Scope       ScopeRef
	RedirectURI string
}

type CompleteCallbackRequest struct {
	ProviderID       string
	Code             string
	State            string
	ErrorCode        string
	ErrorDescription string
	RedirectURI      string
}

// CallbackCompletion is the minimal value the HTTP layer needs to close the
// authorization popup and notify the opener.
type CallbackCompletion struct {
	ProviderID string
	Scope      ScopeRef
	StoredAt   time.Time
}

type FetchItemsRequest struct {
	ProviderID string
	Credential Credential
}

type JobExecutionMessage struct {
	JobID          string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

// ConnectService is the surface the surrounding HTTP layer calls into.
type ConnectService interface {
	Initiate(ctx context.Context, req InitiateRequest) (BeginAuthResponse, error)
	CompleteCallback(ctx context.Context, req CompleteCallbackRequest) (CallbackCompletion, error)
	RetrieveCredential(ctx context.Context, scope ScopeRef) (Credential, error)
	FetchItems(ctx context.Context, req FetchItemsRequest) (FetchItemsResult, error)
}
