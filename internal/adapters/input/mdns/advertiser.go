package mdns

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"wled-hyperion-bridge/internal/domain/model"

	"github.com/hashicorp/mdns"
	log "github.com/sirupsen/logrus"
)

// ServiceType is what WLED apps and Home Assistant browse for.
const ServiceType = "_wled._tcp"

// Service builds the _wled._tcp record. WLED puts the MAC in the "mac" TXT key.
func Service(name, ip string, port int) (*mdns.MDNSService, error) {
	host, _ := os.Hostname()
	if host == "" {
		host = "wled-hyperion"
	}
	host = strings.TrimSuffix(host, ".") + "."

	var ips []net.IP
	if parsed := net.ParseIP(ip); parsed != nil {
		ips = append(ips, parsed)
	}
	txt := []string{"mac=" + model.BridgeSerial(ip)}
	svc, err := mdns.NewMDNSService(InstanceName(name), ServiceType, "", host, port, ips, txt)
	if err != nil {
		return nil, fmt.Errorf("building mDNS service: %w", err)
	}
	return svc, nil
}

// InstanceName turns the device name into a DNS-SD label.
func InstanceName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Hyperion"
	}
	return strings.ReplaceAll(name, ".", "-")
}

// Advertise answers mDNS queries for the bridge until ctx is done.
func Advertise(ctx context.Context, name, ip string, port int) error {
	svc, err := Service(name, ip, port)
	if err != nil {
		return err
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return fmt.Errorf("starting mDNS responder: %w", err)
	}
	log.WithFields(log.Fields{"service": ServiceType, "instance": svc.Instance, "port": port}).Info("mDNS advertisement started")

	<-ctx.Done()
	return server.Shutdown()
}
