package ports

import (
	"context"
	"wled-hyperion-bridge/internal/domain/model"
)

type BridgePort interface {
	LightControlPort

	// Config management
	GetConfig(ctx context.Context) (*model.Config, error)
	UpdateConfig(ctx context.Context, cfg *model.Config) error

	// Canned sequences
	SequenceNames() []string
	RunSequence(ctx context.Context, name string) (model.Status, error)

	// Subscribe registers fn for the status of every state change.
	Subscribe(fn func(model.Status))
}
