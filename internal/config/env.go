package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	"wled-hyperion-bridge/internal/domain/model"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Env holds process settings from the environment (and an optional .env file).
// The Hyperion and MQTT values seed the persisted configuration.
type Env struct {
	LocalIP    string
	ConfigPath string
	LogLevel   string

	HTTPAddr        string
	HyperionHost    string
	HyperionPort    int
	HyperionToken   string
	HyperionTimeout time.Duration
	Discover        bool

	MQTTBroker   string
	MQTTTopic    string
	MQTTUsername string
	MQTTPassword string
	MDNS         string
}

func Load() Env {
	_ = godotenv.Load()

	return Env{
		LocalIP:         getEnv("LOCAL_IP", ""),
		ConfigPath:      getEnv("CONFIG_PATH", "/app/config.json"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HTTPAddr:        getEnv("HTTP_ADDR", ""),
		HyperionHost:    getEnv("HYPERION_HOST", ""),
		HyperionPort:    getEnvInt("HYPERION_PORT", 0),
		HyperionToken:   getEnv("HYPERION_TOKEN", ""),
		HyperionTimeout: time.Duration(getEnvInt("HYPERION_TIMEOUT_MS", 3000)) * time.Millisecond,
		Discover:        getEnvBool("HYPERION_DISCOVER", true),
		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTTopic:       getEnv("MQTT_TOPIC", ""),
		MQTTUsername:    getEnv("MQTT_USERNAME", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		MDNS:            getEnv("MDNS_ENABLED", ""),
	}
}

// Overlay copies the settings present in the environment onto cfg and
// reports whether anything changed.
func (e Env) Overlay(cfg *model.Config) bool {
	changed := false
	setString := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}

	setString(&cfg.HyperionHost, e.HyperionHost)
	setString(&cfg.HyperionToken, e.HyperionToken)
	setString(&cfg.HTTPAddr, e.HTTPAddr)
	setString(&cfg.LocalIP, e.LocalIP)
	if e.HyperionPort != 0 && cfg.HyperionPort != e.HyperionPort {
		cfg.HyperionPort = e.HyperionPort
		changed = true
	}

	if e.MQTTBroker != "" {
		if cfg.MQTT == nil {
			cfg.MQTT = &model.MQTTConfig{}
		}
		setString(&cfg.MQTT.Broker, e.MQTTBroker)
		setString(&cfg.MQTT.Topic, e.MQTTTopic)
		setString(&cfg.MQTT.Username, e.MQTTUsername)
		setString(&cfg.MQTT.Password, e.MQTTPassword)
	}

	if e.MDNS != "" {
		if on, err := strconv.ParseBool(e.MDNS); err == nil && cfg.MDNSEnabled != on {
			cfg.MDNSEnabled = on
			changed = true
		}
	}
	return changed
}

// Level parses LOG_LEVEL, falling back to info.
func (e Env) Level() log.Level {
	lvl, err := log.ParseLevel(e.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Port extracts the TCP port from a listen address such as ":80".
func Port(addr string) int {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 80
	}
	n, err := strconv.Atoi(p)
	if err != nil || n == 0 {
		return 80
	}
	return n
}

// LocalIP returns the first non-loopback IPv4 address.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
