package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	crmconnect "github.com/goliatone/go-crm-connect"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

// SubscribeFacade wires every facade handler into the dispatcher. The caller
// owns the returned subscriptions and unsubscribes on shutdown.
func SubscribeFacade(facade *crmconnect.Facade, runnerOpts ...runner.Option) ([]commanddispatcher.Subscription, error) {
	if facade == nil {
		return nil, fmt.Errorf("gocommand: facade is required")
	}
	commands := facade.Commands()
	queries := facade.Queries()
	if commands.Initiate == nil || commands.CompleteCallback == nil ||
		queries.RetrieveCredential == nil || queries.FetchItems == nil {
		return nil, fmt.Errorf("gocommand: facade handlers are not fully wired")
	}
	return []commanddispatcher.Subscription{
		SubscribeCommand(commands.Initiate, runnerOpts...),
		SubscribeCommand(commands.CompleteCallback, runnerOpts...),
		SubscribeQuery(queries.RetrieveCredential, runnerOpts...),
		SubscribeQuery(queries.FetchItems, runnerOpts...),
	}, nil
}
