package service

import (
	"context"
	"fmt"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/domain/translator"
	"wled-hyperion-bridge/internal/ports"

	log "github.com/sirupsen/logrus"
)

type ConfigService struct {
	repo       ports.ConfigRepository
	hyperion   ports.HyperionPort
	controller *Controller
}

func NewConfigService(repo ports.ConfigRepository, hyperion ports.HyperionPort, controller *Controller) *ConfigService {
	return &ConfigService{
		repo:       repo,
		hyperion:   hyperion,
		controller: controller,
	}
}

func (s *ConfigService) GetConfig(ctx context.Context) (*model.Config, error) {
	return s.repo.Get(ctx)
}

// UpdateConfig validates and persists cfg, then points the transport and the
// controller at it.
func (s *ConfigService) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return model.NewValidationError(err.Error())
	}
	opts, err := translator.OptionsFromConfig(cfg)
	if err != nil {
		return model.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	s.hyperion.Configure(cfg.HyperionHost, cfg.HyperionPort, cfg.HyperionToken)
	s.controller.Configure(opts)

	log.WithFields(log.Fields{
		"host": cfg.HyperionHost,
		"port": cfg.HyperionPort,
	}).Info("Hyperion target updated")
	return nil
}
