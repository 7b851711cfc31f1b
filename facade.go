package crmconnect

import (
	"fmt"

	connectcommand "github.com/goliatone/go-crm-connect/command"
	"github.com/goliatone/go-crm-connect/core"
	connectquery "github.com/goliatone/go-crm-connect/query"
)

// CommandQueryService is the full surface the facade dispatches against.
type CommandQueryService interface {
	connectcommand.MutatingService
	connectquery.CredentialReader
	connectquery.ItemReader
}

type Commands struct {
	Initiate         *connectcommand.InitiateCommand
	CompleteCallback *connectcommand.CompleteCallbackCommand
}

type Queries struct {
	RetrieveCredential *connectquery.RetrieveCredentialQuery
	FetchItems         *connectquery.FetchItemsQuery
}

// Facade bundles command and query handlers over one service instance so a
// host application wires the connector in a single call.
type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("crmconnect: command/query service is required")
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		Initiate:         connectcommand.NewInitiateCommand(service),
		CompleteCallback: connectcommand.NewCompleteCallbackCommand(service),
	}
	facade.queries = Queries{
		RetrieveCredential: connectquery.NewRetrieveCredentialQuery(service),
		FetchItems:         connectquery.NewFetchItemsQuery(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ CommandQueryService = (*core.Service)(nil)
