package app

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/pairchat/pairchat/internal/domain"
)

// RoomCapacity is the hard occupancy limit per room code.
const RoomCapacity = 2

// SessionID identifies one live connection.
type SessionID string

type binding struct {
	sid  SessionID
	code domain.RoomCode
	name string
}

// PresenceTracker is a pure occupancy gauge: which connections are bound to
// which room code, in binding order. It knows nothing about passwords or
// message content.
type PresenceTracker struct {
	mu     sync.RWMutex
	byRoom map[domain.RoomCode][]*binding
	bySID  map[SessionID]*binding
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		byRoom: make(map[domain.RoomCode][]*binding),
		bySID:  make(map[SessionID]*binding),
	}
}

// TryBind records the binding unless the room already holds RoomCapacity
// connections. A session may hold at most one binding.
func (p *PresenceTracker) TryBind(code domain.RoomCode, sid SessionID, name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.byRoom[code]) >= RoomCapacity {
		return false
	}
	if prev, ok := p.bySID[sid]; ok {
		p.drop(prev)
	}
	b := &binding{sid: sid, code: code, name: name}
	p.byRoom[code] = append(p.byRoom[code], b)
	p.bySID[sid] = b
	log.Debug().Str("module", "app.presence").Str("sid", string(sid)).Str("room", string(code)).Msg("bound")
	return true
}

// Unbind removes any binding for sid. No-op for unbound sessions.
func (p *PresenceTracker) Unbind(sid SessionID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.bySID[sid]
	if !ok {
		return
	}
	p.drop(b)
	log.Debug().Str("module", "app.presence").Str("sid", string(sid)).Str("room", string(b.code)).Msg("unbound")
}

func (p *PresenceTracker) drop(b *binding) {
	members := p.byRoom[b.code]
	for i, m := range members {
		if m.sid == b.sid {
			p.byRoom[b.code] = append(members[:i:i], members[i+1:]...)
			break
		}
	}
	if len(p.byRoom[b.code]) == 0 {
		delete(p.byRoom, b.code)
	}
	delete(p.bySID, b.sid)
}

// Lookup returns the room and name bound to sid, if any.
func (p *PresenceTracker) Lookup(sid SessionID) (domain.RoomCode, string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b, ok := p.bySID[sid]
	if !ok {
		return "", "", false
	}
	return b.code, b.name, true
}

// MembersOf returns member names in binding order.
func (p *PresenceTracker) MembersOf(code domain.RoomCode) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return lo.Map(p.byRoom[code], func(b *binding, _ int) string { return b.name })
}

// SessionsOf returns the bound session ids in binding order.
func (p *PresenceTracker) SessionsOf(code domain.RoomCode) []SessionID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return lo.Map(p.byRoom[code], func(b *binding, _ int) SessionID { return b.sid })
}
