package translator

import (
	"context"
	"errors"
	"wled-hyperion-bridge/internal/domain/model"
)

// fakeHyperion records commands and answers serverinfo from a queue; the last
// snapshot is reused once the queue is drained.
type fakeHyperion struct {
	infos    []*model.ServerInfo
	sent     []model.Command
	failInfo bool
	failOn   string
}

func (f *fakeHyperion) Send(ctx context.Context, cmd model.Command) (*model.Response, error) {
	f.sent = append(f.sent, cmd)
	if cmd.Command == model.CommandServerInfo {
		if f.failInfo || len(f.infos) == 0 {
			return nil, errors.New("unreachable")
		}
		info := f.infos[0]
		if len(f.infos) > 1 {
			f.infos = f.infos[1:]
		}
		return &model.Response{Command: cmd.Command, Success: true, Info: info}, nil
	}
	if cmd.Command == f.failOn {
		return nil, model.ErrConnection
	}
	return &model.Response{Command: cmd.Command, Success: true}, nil
}

// commands drops the serverinfo reads.
func (f *fakeHyperion) commands() []model.Command {
	var out []model.Command
	for _, c := range f.sent {
		if c.Command != model.CommandServerInfo {
			out = append(out, c)
		}
	}
	return out
}

func infoWithLED(on bool) *model.ServerInfo {
	return &model.ServerInfo{
		Components: []model.Component{
			{Name: "SMOOTHING", Enabled: true},
			{Name: model.ComponentLEDDevice, Enabled: on},
		},
	}
}

func brightness(v float64) *float64 {
	return &v
}
