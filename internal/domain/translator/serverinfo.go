package translator

import (
	"context"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/ports"

	log "github.com/sirupsen/logrus"
)

// readServerInfo is the best-effort snapshot read. Any failure, including a
// success=false reply, yields ok=false; callers decide what absence means.
func readServerInfo(ctx context.Context, sender ports.CommandSender) (info *model.ServerInfo, ok bool) {
	resp, err := sender.Send(ctx, model.Command{Command: model.CommandServerInfo})
	if err != nil {
		log.WithError(err).Warn("Could not get Hyperion serverinfo")
		return nil, false
	}
	if resp == nil || !resp.Success || resp.Info == nil {
		return nil, false
	}
	return resp.Info, true
}

// ledDeviceOn reads LEDDEVICE enablement; absent snapshot or component means off.
func ledDeviceOn(info *model.ServerInfo) bool {
	on, _ := info.ComponentEnabled(model.ComponentLEDDevice)
	return on
}
