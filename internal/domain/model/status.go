package model

// NoPreset is reported when no mapped preset matches the visible source.
const NoPreset = -1

// NoPlaylist is always reported; Hyperion has no playlists.
const NoPlaylist = -1

// Status is the uniform WLED-shaped outcome of every public operation.
type Status struct {
	Connected  bool   `json:"connected"`
	IsOn       bool   `json:"is_on"`
	PresetID   int    `json:"preset_id"`
	PlaylistID int    `json:"playlist_id"`
	Brightness int    `json:"brightness"`
	Message    string `json:"message"`
}

// FailedStatus is the shape returned for any failure, validation included.
func FailedStatus(message string) Status {
	return Status{
		Connected:  false,
		PresetID:   NoPreset,
		PlaylistID: NoPlaylist,
		Message:    message,
	}
}
