package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-crm-connect/core"
)

const (
	TypeInitiate         = "crmconnect.command.initiate"
	TypeCompleteCallback = "crmconnect.command.callback.complete"
)

type InitiateMessage struct {
	Request core.InitiateRequest
}

func (InitiateMessage) Type() string { return TypeInitiate }

func (m InitiateMessage) Validate() error {
	if err := validateScope(m.Request.Scope); err != nil {
		return err
	}
	return nil
}

type CompleteCallbackMessage struct {
	Request core.CompleteCallbackRequest
}

func (CompleteCallbackMessage) Type() string { return TypeCompleteCallback }

func (m CompleteCallbackMessage) Validate() error {
	if strings.TrimSpace(m.Request.ErrorCode) != "" {
		return nil
	}
	if strings.TrimSpace(m.Request.State) == "" {
		return fmt.Errorf("command: state is required")
	}
	if strings.TrimSpace(m.Request.Code) == "" {
		return fmt.Errorf("command: authorization code is required")
	}
	return nil
}

func validateScope(scope core.ScopeRef) error {
	if err := scope.Validate(); err != nil {
		return fmt.Errorf("command: %w", err)
	}
	return nil
}
