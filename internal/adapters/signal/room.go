package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/pairchat/pairchat/internal/app"
	"github.com/pairchat/pairchat/internal/domain"
)

func reasonFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrWrongPassword):
		return "wrong_password"
	case errors.Is(err, domain.ErrRoomFull):
		return "room_full"
	default:
		return "join_failed"
	}
}

// handleJoin runs the join and, on success, emits join_result and history
// directly before the coordinator announces presence room-wide, so the
// joiner always sees join_result → history → presence in that order.
func (ctl *Controller) handleJoin(sid app.SessionID, conn *WsConn, data []byte) {
	type joinPayload struct {
		Type     string `json:"type"`
		Name     string `json:"name"`
		RoomCode string `json:"roomCode"`
		Password string `json:"password"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":   "join_result",
			"ok":     false,
			"reason": "invalid_input",
		})
		return
	}

	res, err := ctl.Coord.Join(sid, conn, p.RoomCode, p.Password, p.Name)
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join rejected")
		ctl.sendJSON(conn, map[string]any{
			"type":   "join_result",
			"ok":     false,
			"reason": reasonFor(err),
		})
		return
	}

	ctl.sendJSON(conn, struct {
		Type string          `json:"type"`
		OK   bool            `json:"ok"`
		Room domain.RoomCode `json:"roomCode"`
		Name string          `json:"name"`
	}{
		Type: "join_result",
		OK:   true,
		Room: res.Room,
		Name: res.Name,
	})
	ctl.sendJSON(conn, struct {
		Type     string           `json:"type"`
		Messages []domain.Message `json:"messages"`
	}{
		Type:     "history",
		Messages: res.History,
	})
	ctl.Coord.AnnouncePresence(res.Room)
}
