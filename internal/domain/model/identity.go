package model

import (
	"strings"

	"github.com/google/uuid"
)

var bridgeNamespace = uuid.MustParse("6f0c3a8e-2d53-4f0e-9a43-5b7a1e4f2c10")

// BridgeUUID derives a stable identity for the emulated bridge from its IP.
func BridgeUUID(ip string) uuid.UUID {
	return uuid.NewSHA1(bridgeNamespace, []byte(ip))
}

// BridgeSerial is the 12 hex digit serial Hue clients expect.
func BridgeSerial(ip string) string {
	id := strings.ReplaceAll(BridgeUUID(ip).String(), "-", "")
	return id[len(id)-12:]
}
