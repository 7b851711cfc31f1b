package crmconnect

import "github.com/goliatone/go-crm-connect/core"

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type ScopeRef = core.ScopeRef
type ItemType = core.ItemType
type Item = core.Item
type Credential = core.Credential
type ResourceError = core.ResourceError

type EphemeralStore = core.EphemeralStore
type Provider = core.Provider
type ItemSource = core.ItemSource

type InitiateRequest = core.InitiateRequest
type CompleteCallbackRequest = core.CompleteCallbackRequest
type CallbackCompletion = core.CallbackCompletion
type FetchItemsRequest = core.FetchItemsRequest
type FetchItemsResult = core.FetchItemsResult
type BeginAuthResponse = core.BeginAuthResponse

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithEphemeralStore    = core.WithEphemeralStore
	WithRegistry          = core.WithRegistry
	WithProvider          = core.WithProvider
	WithCredentialCodec   = core.WithCredentialCodec
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
