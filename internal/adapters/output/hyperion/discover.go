package hyperion

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/mdns"
	log "github.com/sirupsen/logrus"
)

// ServiceType is what hyperiond announces for its JSON server.
const ServiceType = "_hyperiond-json._tcp"

var ErrNotFound = errors.New("no Hyperion server found")

// Server is a Hyperion JSON endpoint found on the local network.
type Server struct {
	Name string
	Host string
	Port int
}

type queryFunc func(*mdns.QueryParam) error

// Discover browses mDNS for the first Hyperion JSON server answering within timeout.
func Discover(ctx context.Context, timeout time.Duration) (Server, error) {
	return discover(ctx, timeout, mdns.Query)
}

func discover(ctx context.Context, timeout time.Duration, query queryFunc) (Server, error) {
	entries := make(chan *mdns.ServiceEntry, 10)

	go func() {
		params := &mdns.QueryParam{
			Service:             ServiceType,
			Domain:              "local",
			Timeout:             timeout,
			Entries:             entries,
			DisableIPv6:         true,
			WantUnicastResponse: true,
		}
		if err := query(params); err != nil {
			log.WithError(err).Warn("mDNS Hyperion query failed")
		}
		close(entries)
	}()

	for {
		select {
		case <-ctx.Done():
			go drain(entries)
			return Server{}, ctx.Err()
		case entry, ok := <-entries:
			if !ok {
				return Server{}, ErrNotFound
			}
			if entry.AddrV4 == nil || entry.Port == 0 {
				continue
			}
			log.WithFields(log.Fields{"name": entry.Name, "addr": entry.AddrV4, "port": entry.Port}).Info("Found Hyperion server")
			go drain(entries)
			return Server{Name: entry.Name, Host: entry.AddrV4.String(), Port: entry.Port}, nil
		}
	}
}

// drain lets the query goroutine finish once a result has been taken.
func drain(entries <-chan *mdns.ServiceEntry) {
	for range entries {
	}
}
