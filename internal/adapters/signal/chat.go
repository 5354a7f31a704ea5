package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/pairchat/pairchat/internal/app"
)

// Send handlers never answer the sender directly: a valid send comes back
// as the room-wide new_message broadcast, an invalid one vanishes.

func (ctl *Controller) handleSendText(sid app.SessionID, data []byte) {
	type textPayload struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	var p textPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad send_text payload")
		return
	}
	ctl.Coord.SendText(sid, p.Text)
}

func (ctl *Controller) handleSendMedia(sid app.SessionID, data []byte) {
	type mediaPayload struct {
		Type string `json:"type"`
		Kind string `json:"mediaType"`
		URL  string `json:"url"`
	}
	var p mediaPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad send_media payload")
		return
	}
	ctl.Coord.SendMedia(sid, p.Kind, p.URL)
}
