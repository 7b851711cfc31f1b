package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[InitiateMessage]         = (*InitiateCommand)(nil)
	_ gocmd.Commander[CompleteCallbackMessage] = (*CompleteCallbackCommand)(nil)
)
