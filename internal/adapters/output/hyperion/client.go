package hyperion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"
	"wled-hyperion-bridge/internal/domain/model"

	log "github.com/sirupsen/logrus"
)

const DefaultTimeout = 3 * time.Second

// tanModulus bounds the correlation number sent with each command.
const tanModulus = 100000

// maxReplySize caps a reply line; a full serverinfo is well below it.
const maxReplySize = 4 << 20

type Option func(*Client)

// WithTimeout bounds the connect and the read of every round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTarget sets the initial host, port and token.
func WithTarget(host string, port int, token string) Option {
	return func(c *Client) {
		c.setTarget(host, port, token)
	}
}

// Client speaks Hyperion's JSON-over-TCP protocol, one connection per command.
type Client struct {
	timeout time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	host  string
	port  int
	token string
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout: DefaultTimeout,
		now:     time.Now,
		port:    model.DefaultHyperionPort,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Configure(host string, port int, token string) {
	c.setTarget(host, port, token)
}

func (c *Client) setTarget(host string, port int, token string) {
	if port == 0 {
		port = model.DefaultHyperionPort
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.host = host
	c.port = port
	c.token = token
}

func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.host != ""
}

func (c *Client) Address() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// Send writes cmd as one JSON line and decodes the first reply line. A reply
// with success=false is logged and returned without error.
func (c *Client) Send(ctx context.Context, cmd model.Command) (*model.Response, error) {
	c.mu.RLock()
	host, port, token := c.host, c.port, c.token
	c.mu.RUnlock()
	if host == "" {
		return nil, model.ErrConfiguration
	}

	if token != "" {
		cmd.Token = token
	}
	if cmd.Tan == nil {
		cmd.Tan = model.Int(int(c.now().UnixMilli() % tanModulus))
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encoding %s command: %w", cmd.Command, err)
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	logger := log.WithFields(log.Fields{"command": cmd.Command, "tan": *cmd.Tan, "addr": addr})
	logger.Debug("Sending Hyperion command")

	line, err := c.roundTrip(ctx, addr, append(payload, '\n'))
	if err != nil {
		return nil, err
	}

	var resp model.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrProtocol, err)
	}
	if !resp.Success {
		logger.WithField("error", resp.Error).Warn("Hyperion command failed")
	}
	return &resp, nil
}

func (c *Client) roundTrip(ctx context.Context, addr string, payload []byte) ([]byte, error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classify(addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, classify(addr, err)
	}
	if _, err := conn.Write(payload); err != nil {
		return nil, classify(addr, err)
	}

	// One byte past the cap distinguishes an oversized reply from one that fits exactly.
	line, err := bufio.NewReader(io.LimitReader(conn, maxReplySize+1)).ReadBytes('\n')
	if errors.Is(err, io.EOF) {
		if len(line) > maxReplySize {
			return nil, fmt.Errorf("%w: Hyperion reply exceeds %d bytes", model.ErrProtocol, maxReplySize)
		}
		return nil, fmt.Errorf("%w: no response data from Hyperion", model.ErrProtocol)
	}
	if err != nil {
		return nil, classify(addr, err)
	}
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, fmt.Errorf("%w: no response data from Hyperion", model.ErrProtocol)
	}
	return line, nil
}

func classify(addr string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w communicating with Hyperion at %s", model.ErrTimeout, addr)
	}
	return fmt.Errorf("%w: Hyperion at %s: %v", model.ErrConnection, addr, err)
}
