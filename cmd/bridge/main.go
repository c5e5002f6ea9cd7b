package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"wled-hyperion-bridge/internal/adapters/input/mdns"
	"wled-hyperion-bridge/internal/adapters/input/mqtt"
	"wled-hyperion-bridge/internal/adapters/input/ssdp"
	"wled-hyperion-bridge/internal/adapters/output/hyperion"
	"wled-hyperion-bridge/internal/adapters/output/persistence"
	"wled-hyperion-bridge/internal/config"
	"wled-hyperion-bridge/internal/domain/service"
	"wled-hyperion-bridge/internal/domain/translator"

	httpadapter "wled-hyperion-bridge/internal/adapters/input/http"

	log "github.com/sirupsen/logrus"
)

const discoverTimeout = 3 * time.Second

func main() {
	env := config.Load()
	log.SetLevel(env.Level())

	// Persistence
	configRepo := persistence.NewJSONConfigRepository(env.ConfigPath)
	cfg, err := configRepo.Get(context.Background())
	if err != nil {
		log.WithError(err).Fatal("Loading config failed")
	}
	changed := env.Overlay(cfg)

	ip := cfg.LocalIP
	if ip == "" {
		ip = config.LocalIP()
	}
	if ip == "" {
		log.Fatal("Could not determine local IP. Set LOCAL_IP environment variable.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HyperionHost == "" && env.Discover {
		if found, err := hyperion.Discover(ctx, discoverTimeout); err == nil {
			log.WithFields(log.Fields{"host": found.Host, "port": found.Port}).Info("Discovered Hyperion")
			cfg.HyperionHost, cfg.HyperionPort = found.Host, found.Port
			changed = true
		} else {
			log.WithError(err).Warn("Hyperion discovery found nothing, configure it at /admin/config")
		}
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid config")
	}
	if changed {
		if err := configRepo.Save(ctx, cfg); err != nil {
			log.WithError(err).Warn("Saving config failed")
		}
	}

	// Hyperion
	client := hyperion.NewClient(
		hyperion.WithTimeout(env.HyperionTimeout),
		hyperion.WithTarget(cfg.HyperionHost, cfg.HyperionPort, cfg.HyperionToken),
	)
	opts, err := translator.OptionsFromConfig(cfg)
	if err != nil {
		log.WithError(err).Fatal("Invalid translation settings")
	}
	controller := service.NewController(client, opts)
	bridge := service.NewBridge(controller, service.NewConfigService(configRepo, client, controller))

	log.WithFields(log.Fields{"ip": ip, "hyperion": client.Address()}).Info("Starting WLED Hyperion bridge")

	// SSDP
	port := config.Port(cfg.HTTPAddr)
	go func() {
		if err := ssdp.NewServer(ip, port).Run(ctx); err != nil {
			log.WithError(err).Error("SSDP server error")
		}
	}()

	// mDNS
	if cfg.MDNSEnabled {
		go func() {
			if err := mdns.Advertise(ctx, cfg.Name, ip, port); err != nil {
				log.WithError(err).Error("mDNS advertisement error")
			}
		}()
	}

	// MQTT
	if cfg.MQTT != nil && cfg.MQTT.Broker != "" {
		adapter := mqtt.NewAdapter(bridge, *cfg.MQTT)
		go func() {
			if err := adapter.Run(ctx); err != nil {
				log.WithError(err).Error("MQTT adapter error")
			}
		}()
	}

	// HTTP
	server := httpadapter.NewServer(bridge, ip)
	go server.Hub().Run(ctx)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: server.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP shutdown failed")
		}
	}()

	log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("HTTP server error")
	}
	log.Info("Bridge stopped")
}
