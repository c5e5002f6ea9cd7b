package mqtt

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"wled-hyperion-bridge/internal/adapters/input/wled"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/domain/service"
	"wled-hyperion-bridge/internal/ports"

	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

const (
	defaultClientID = "wled-hyperion-bridge"
	// milliseconds granted to in-flight work on disconnect
	disconnectQuiesce = 250
)

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Adapter speaks the WLED MQTT topic layout on a device topic:
//
//	<topic>      ON, OFF, T or a brightness 0-255
//	<topic>/col  a color as RRGGBB, #RRGGBB or 0xRRGGBB
//	<topic>/api  a JSON state update
//
// and publishes <topic>/g (brightness, 0 when off) and <topic>/status.
type Adapter struct {
	bridge ports.BridgePort
	cfg    model.MQTTConfig

	mu  sync.Mutex
	pub publisher
}

func NewAdapter(bridge ports.BridgePort, cfg model.MQTTConfig) *Adapter {
	cfg.Topic = strings.TrimSuffix(cfg.Topic, "/")
	if cfg.ClientID == "" {
		cfg.ClientID = defaultClientID
	}
	return &Adapter{bridge: bridge, cfg: cfg}
}

func (a *Adapter) ClientOptions() *paho.ClientOptions {
	return paho.NewClientOptions().
		AddBroker(BrokerURL(a.cfg.Broker)).
		SetClientID(a.cfg.ClientID).
		SetUsername(a.cfg.Username).
		SetPassword(a.cfg.Password).
		SetAutoReconnect(true).
		SetWill(a.cfg.Topic+"/status", "offline", 0, true).
		SetOnConnectHandler(a.onConnect).
		SetConnectionLostHandler(func(client paho.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		}).
		SetReconnectingHandler(func(client paho.Client, opts *paho.ClientOptions) {
			log.Info("MQTT reconnecting")
		})
}

// Run connects to the broker and serves until ctx is done.
func (a *Adapter) Run(ctx context.Context) error {
	client := paho.NewClient(a.ClientOptions())
	if t := client.Connect(); t.Wait() && t.Error() != nil {
		return fmt.Errorf("MQTT connection error: %w", t.Error())
	}
	a.bridge.Subscribe(a.PublishStatus)

	<-ctx.Done()
	if t := client.Publish(a.cfg.Topic+"/status", 0, true, "offline"); t.Wait() && t.Error() != nil {
		log.WithError(t.Error()).Warn("MQTT offline publish failed")
	}
	client.Disconnect(disconnectQuiesce)
	return nil
}

// onConnect runs on every (re)connect, so subscriptions survive broker restarts.
func (a *Adapter) onConnect(client paho.Client) {
	a.mu.Lock()
	a.pub = client
	a.mu.Unlock()

	topics := map[string]byte{a.cfg.Topic: 0, a.cfg.Topic + "/col": 0, a.cfg.Topic + "/api": 0}
	if t := client.SubscribeMultiple(topics, func(c paho.Client, msg paho.Message) {
		a.Handle(context.Background(), msg.Topic(), msg.Payload())
	}); t.Wait() && t.Error() != nil {
		log.WithError(t.Error()).Error("MQTT subscribe failed")
		return
	}
	log.WithField("topic", a.cfg.Topic).Info("MQTT connected")

	a.publish("status", "online")
	a.PublishStatus(a.bridge.GetStatus(context.Background()))
}

// Handle applies one inbound message.
func (a *Adapter) Handle(ctx context.Context, topic string, payload []byte) {
	logger := log.WithField("topic", topic)
	state, err := a.decode(topic, payload)
	if err != nil {
		logger.WithError(err).Warn("Ignoring MQTT message")
		return
	}
	status := a.bridge.Apply(ctx, state)
	if !status.Connected {
		logger.Warn(status.Message)
	}
}

func (a *Adapter) decode(topic string, payload []byte) (model.DesiredState, error) {
	switch strings.TrimPrefix(topic, a.cfg.Topic) {
	case "":
		return DecodeCommand(string(payload))
	case "/col":
		rgb, err := wled.ParseHex(strings.TrimSpace(string(payload)))
		if err != nil {
			return model.DesiredState{}, err
		}
		return model.DesiredState{Segment: &model.Segment{Colors: [][]int{rgb}}}, nil
	case "/api":
		p := strings.TrimSpace(string(payload))
		if !strings.HasPrefix(p, "{") {
			return model.DesiredState{}, model.NewValidationError("only JSON API messages are supported")
		}
		state, _, err := wled.DecodeState([]byte(p))
		return state, err
	}
	return model.DesiredState{}, fmt.Errorf("unexpected topic %s", topic)
}

// DecodeCommand parses a payload sent to the device topic. A brightness above
// zero also turns the light on and zero turns it off.
func DecodeCommand(payload string) (model.DesiredState, error) {
	p := strings.TrimSpace(payload)
	switch strings.ToUpper(p) {
	case "ON", "TRUE":
		return model.DesiredState{Power: model.Power(model.PowerOn)}, nil
	case "OFF", "FALSE":
		return model.DesiredState{Power: model.Power(model.PowerOff)}, nil
	case "T":
		return model.DesiredState{Power: model.Power(model.PowerToggle)}, nil
	}

	bri, err := service.ParseInt(p, "Payload must be ON, OFF, T or a brightness")
	if err != nil {
		return model.DesiredState{}, err
	}
	if bri == 0 {
		return model.DesiredState{Power: model.Power(model.PowerOff)}, nil
	}
	return model.DesiredState{Power: model.Power(model.PowerOn), Brightness: model.Int(bri)}, nil
}

// PublishStatus publishes the retained brightness topic for a reachable Hyperion.
func (a *Adapter) PublishStatus(status model.Status) {
	if !status.Connected {
		return
	}
	bri := status.Brightness
	if !status.IsOn {
		bri = 0
	}
	a.publish("g", strconv.Itoa(bri))
}

func (a *Adapter) publish(suffix, payload string) {
	a.mu.Lock()
	pub := a.pub
	a.mu.Unlock()
	if pub == nil {
		return
	}
	topic := a.cfg.Topic + "/" + suffix
	if t := pub.Publish(topic, 0, true, payload); t.Wait() && t.Error() != nil {
		log.WithError(t.Error()).WithField("topic", topic).Warn("MQTT publish failed")
	}
}

// BrokerURL adds the tcp scheme and default port when missing.
func BrokerURL(broker string) string {
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	host := broker[strings.Index(broker, "://")+3:]
	if !strings.Contains(host, ":") {
		broker += ":1883"
	}
	return broker
}
