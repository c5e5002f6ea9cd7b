package ssdp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"wled-hyperion-bridge/internal/domain/model"

	log "github.com/sirupsen/logrus"
)

const multicastAddr = "239.255.255.250:1900"

// search targets Echo devices use when looking for a Hue bridge
var searchTargets = []string{
	"urn:schemas-upnp-org:device:basic:1",
	"upnp:rootdevice",
	"ssdp:all",
}

// Server answers SSDP M-SEARCH requests so Hue clients find description.xml.
type Server struct {
	ip   string
	port int
}

func NewServer(ip string, port int) *Server {
	if port == 0 {
		port = 80
	}
	return &Server{ip: ip, port: port}
}

// Run listens until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp4", multicastAddr)
	if err != nil {
		return err
	}
	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	log.WithField("location", s.location()).Info("SSDP responder started")
	buf := make([]byte, 2048)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.WithError(err).Debug("SSDP read failed")
			continue
		}
		if !IsSearch(string(buf[:n])) {
			continue
		}
		log.WithField("from", src.String()).Debug("Answering SSDP search")
		s.respond(src)
	}
}

// IsSearch reports whether msg is an M-SEARCH for a target the bridge answers.
func IsSearch(msg string) bool {
	if !strings.HasPrefix(msg, "M-SEARCH") {
		return false
	}
	lower := strings.ToLower(msg)
	for _, st := range searchTargets {
		if strings.Contains(lower, st) {
			return true
		}
	}
	return false
}

func (s *Server) respond(dest *net.UDPAddr) {
	conn, err := net.DialUDP("udp4", nil, dest)
	if err != nil {
		log.WithError(err).Debug("SSDP reply dial failed")
		return
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(s.Response())); err != nil {
		log.WithError(err).Debug("SSDP reply failed")
	}
}

func (s *Server) location() string {
	return fmt.Sprintf("http://%s:%d/description.xml", s.ip, s.port)
}

// Response is the unicast reply to a matching search.
func (s *Server) Response() string {
	serial := strings.ToUpper(model.BridgeSerial(s.ip))
	return fmt.Sprintf("HTTP/1.1 200 OK\r\n"+
		"CACHE-CONTROL: max-age=100\r\n"+
		"EXT:\r\n"+
		"LOCATION: %s\r\n"+
		"SERVER: Linux/3.14.0 UPnP/1.0 IpBridge/1.17.0\r\n"+
		"hue-bridgeid: %s\r\n"+
		"ST: urn:schemas-upnp-org:device:basic:1\r\n"+
		"USN: uuid:%s::urn:schemas-upnp-org:device:basic:1\r\n\r\n",
		s.location(), serial[:6]+"FFFE"+serial[6:], model.BridgeUUID(s.ip))
}
