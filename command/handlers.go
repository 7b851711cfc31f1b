package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm-connect/core"
)

// MutatingService is the slice of the connect service the command layer
// drives: operations that write state.
type MutatingService interface {
	Initiate(ctx context.Context, req core.InitiateRequest) (core.BeginAuthResponse, error)
	CompleteCallback(ctx context.Context, req core.CompleteCallbackRequest) (core.CallbackCompletion, error)
}

type InitiateCommand struct {
	service MutatingService
}

func NewInitiateCommand(service MutatingService) *InitiateCommand {
	return &InitiateCommand{service: service}
}

func (c *InitiateCommand) Execute(ctx context.Context, msg InitiateMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: initiate service is required")
	}
	if err := msg.Validate(); err != nil {
		return commandInvalidInputError(err.Error())
	}
	out, err := c.service.Initiate(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CompleteCallbackCommand struct {
	service MutatingService
}

func NewCompleteCallbackCommand(service MutatingService) *CompleteCallbackCommand {
	return &CompleteCallbackCommand{service: service}
}

func (c *CompleteCallbackCommand) Execute(ctx context.Context, msg CompleteCallbackMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: callback service is required")
	}
	if err := msg.Validate(); err != nil {
		return commandInvalidInputError(err.Error())
	}
	out, err := c.service.CompleteCallback(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
