package ports

import (
	"context"
	"wled-hyperion-bridge/internal/domain/model"
)

// CommandSender performs one request/response round trip with Hyperion.
type CommandSender interface {
	Send(ctx context.Context, cmd model.Command) (*model.Response, error)
}

type HyperionPort interface {
	CommandSender
	Configure(host string, port int, token string)
	IsConfigured() bool
}
