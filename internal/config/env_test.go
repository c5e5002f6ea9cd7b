package config

import (
	"testing"
	"time"
	"wled-hyperion-bridge/internal/domain/model"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("HYPERION_HOST", "192.168.1.20")
	t.Setenv("HYPERION_PORT", "19445")
	t.Setenv("HYPERION_TIMEOUT_MS", "500")
	t.Setenv("HYPERION_DISCOVER", "no")
	t.Setenv("LOG_LEVEL", "debug")

	env := Load()
	assert.Equal(t, "192.168.1.20", env.HyperionHost)
	assert.Equal(t, 19445, env.HyperionPort)
	assert.Equal(t, 500*time.Millisecond, env.HyperionTimeout)
	assert.True(t, env.Discover, "unparsable booleans keep the default")
	assert.Equal(t, log.DebugLevel, env.Level())
	assert.Equal(t, "/app/config.json", env.ConfigPath)
}

func TestEnv_Overlay(t *testing.T) {
	cfg := model.DefaultConfig()
	assert.False(t, Env{}.Overlay(cfg))

	env := Env{
		HyperionHost: "10.0.0.2",
		HyperionPort: 19445,
		MQTTBroker:   "broker",
		MQTTTopic:    "wled/hyperion",
		MDNS:         "true",
	}
	assert.True(t, env.Overlay(cfg))
	assert.Equal(t, "10.0.0.2", cfg.HyperionHost)
	assert.Equal(t, 19445, cfg.HyperionPort)
	require.NotNil(t, cfg.MQTT)
	assert.Equal(t, "wled/hyperion", cfg.MQTT.Topic)
	assert.True(t, cfg.MDNSEnabled)

	assert.False(t, env.Overlay(cfg), "second overlay is a no-op")
}

func TestEnv_LevelFallback(t *testing.T) {
	assert.Equal(t, log.InfoLevel, Env{LogLevel: "chatty"}.Level())
}

func TestPort(t *testing.T) {
	assert.Equal(t, 80, Port(":80"))
	assert.Equal(t, 8080, Port("0.0.0.0:8080"))
	assert.Equal(t, 80, Port("garbage"))
}
