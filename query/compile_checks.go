package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm-connect/core"
)

var (
	_ gocmd.Querier[RetrieveCredentialMessage, core.Credential] = (*RetrieveCredentialQuery)(nil)
	_ gocmd.Querier[FetchItemsMessage, core.FetchItemsResult]   = (*FetchItemsQuery)(nil)
)
