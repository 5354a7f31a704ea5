// Package app holds the room-session core: the presence gauge and the
// coordinator that enforces join rules and routes messages.
package app

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/pairchat/pairchat/internal/domain"
	"github.com/pairchat/pairchat/internal/store"
)

// uploadPathPrefix is the only namespace a media reference may point into.
const uploadPathPrefix = "/uploads/"

// Sender is the gateway-owned outbound channel of one connection.
// TrySend must never block; a full or closed peer returns an error.
type Sender interface {
	TrySend([]byte) error
}

// JoinResult is what a successful joiner gets back before any broadcast.
type JoinResult struct {
	Room    domain.RoomCode
	Name    string
	History []domain.Message
	Members []string
}

// Coordinator serializes join/send/disconnect for all rooms behind one
// mutex. That single serialization point is also what makes the first-join
// creation race deterministic: the first join to reach CreateIfAbsent fixes
// the room password, later joiners are checked against it.
type Coordinator struct {
	mu       sync.Mutex
	store    *store.RoomStore
	presence *PresenceTracker
	senders  map[SessionID]Sender
}

func NewCoordinator(st *store.RoomStore, presence *PresenceTracker) *Coordinator {
	return &Coordinator{
		store:    st,
		presence: presence,
		senders:  make(map[SessionID]Sender),
	}
}

// Join moves sid from Unjoined to Joined. Validation order: input shape,
// then password against the (possibly just created) room, then occupancy.
// A failed join changes nothing: a session already in a room stays bound
// there until every check has passed, and only then is moved.
func (c *Coordinator) Join(sid SessionID, sender Sender, code, password, name string) (*JoinResult, error) {
	rc := domain.NormalizeCode(code)
	pass := domain.CleanText(password, domain.MaxPasswordLen)
	nick := domain.CleanText(name, domain.MaxNameLen)
	if rc == "" || pass == "" || nick == "" {
		return nil, domain.ErrInvalidInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	room := c.store.CreateIfAbsent(rc, pass)
	if room.Password != pass {
		return nil, domain.ErrWrongPassword
	}
	prev, _, wasJoined := c.presence.Lookup(sid)
	if !c.presence.TryBind(rc, sid, nick) {
		return nil, domain.ErrRoomFull
	}
	c.senders[sid] = sender
	if wasJoined && prev != rc {
		c.broadcastPresence(prev)
	}

	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(rc)).Str("name", nick).Msg("joined")
	return &JoinResult{
		Room:    rc,
		Name:    nick,
		History: room.History(),
		Members: c.presence.MembersOf(rc),
	}, nil
}

// SendText appends a text message and fans it out to the room. Silent no-op
// when sid is not joined or the text is blank after trimming.
func (c *Coordinator) SendText(sid SessionID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, name, ok := c.presence.Lookup(sid)
	if !ok {
		return
	}
	t := domain.CleanText(text, domain.MaxTextLen)
	if t == "" {
		return
	}
	msg := domain.NewTextMessage(name, t)
	c.store.AppendMessage(code, msg)
	c.broadcastMessage(code, msg)
}

// SendMedia appends a media message. Anything that is not an image/audio
// kind pointing into the upload namespace is dropped without feedback, so a
// client probing with arbitrary URLs learns nothing.
func (c *Coordinator) SendMedia(sid SessionID, kind, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, name, ok := c.presence.Lookup(sid)
	if !ok {
		return
	}
	k := domain.MessageKind(domain.CleanText(kind, domain.MaxNameLen))
	if !k.Media() {
		return
	}
	u := domain.CleanText(url, domain.MaxURLLen)
	if !strings.HasPrefix(u, uploadPathPrefix) {
		log.Warn().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("media reference outside upload namespace, dropped")
		return
	}
	msg := domain.NewMediaMessage(k, name, u)
	c.store.AppendMessage(code, msg)
	c.broadcastMessage(code, msg)
}

// Disconnect is terminal for sid and idempotent. Remaining members get a
// recomputed presence event.
func (c *Coordinator) Disconnect(sid SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.senders, sid)
	code, _, ok := c.presence.Lookup(sid)
	if !ok {
		return
	}
	c.presence.Unbind(sid)
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(code)).Msg("disconnected")
	c.broadcastPresence(code)
}

// AnnouncePresence broadcasts the current member list to the room. The
// gateway calls it once the joiner has received its direct events, keeping
// the join_result → history → presence order on the joiner's wire.
func (c *Coordinator) AnnouncePresence(code domain.RoomCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broadcastPresence(code)
}

func (c *Coordinator) broadcastPresence(code domain.RoomCode) {
	c.broadcast(code, struct {
		Type    string   `json:"type"`
		Members []string `json:"members"`
	}{
		Type:    "presence",
		Members: c.presence.MembersOf(code),
	})
}

func (c *Coordinator) broadcastMessage(code domain.RoomCode, msg domain.Message) {
	c.broadcast(code, struct {
		Type    string         `json:"type"`
		Message domain.Message `json:"message"`
	}{
		Type:    "new_message",
		Message: msg,
	})
}

// broadcast resolves the member set fresh and delivers best-effort: one
// slow or gone peer never blocks the other.
func (c *Coordinator) broadcast(code domain.RoomCode, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("broadcast encode failed")
		return
	}
	for _, sid := range c.presence.SessionsOf(code) {
		sender, ok := c.senders[sid]
		if !ok {
			continue
		}
		if err := sender.TrySend(b); err != nil {
			log.Warn().Err(err).Str("module", "app.coordinator").Str("sid", string(sid)).Msg("broadcast delivery dropped")
		}
	}
}
