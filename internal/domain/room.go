// Package domain contains entities without behaviour beyond their own
// invariants: rooms, messages, normalization and the shared error taxonomy.
package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	MaxCodeLen     = 20
	MaxPasswordLen = 64
	MaxNameLen     = 20
	MaxTextLen     = 500
	MaxURLLen      = 300

	// StoredHistoryCap bounds what a room keeps on disk,
	// JoinHistoryCap bounds what a joiner gets replayed.
	StoredHistoryCap = 500
	JoinHistoryCap   = 200
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrWrongPassword = errors.New("wrong password")
	ErrRoomFull      = errors.New("room full")
)

type RoomCode string

// NormalizeCode trims, uppercases and caps a raw room code.
// An empty result means the input was unusable.
func NormalizeCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(CleanText(raw, MaxCodeLen)))
}

// CleanText trims surrounding whitespace and caps the result at max runes.
func CleanText(s string, max int) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > max {
		return string(r[:max])
	}
	return s
}

// Room is a two-party chat session. Password is fixed at creation and never
// changes; Messages grows append-only up to StoredHistoryCap.
type Room struct {
	Code      RoomCode  `json:"-"`
	Password  string    `json:"password"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"`
}

func NewRoom(code RoomCode, password string) *Room {
	return &Room{
		Code:      code,
		Password:  password,
		Messages:  []Message{},
		CreatedAt: time.Now().UnixMilli(),
	}
}

// Append adds a message and drops the oldest entries beyond StoredHistoryCap.
func (r *Room) Append(msg Message) {
	r.Messages = append(r.Messages, msg)
	if n := len(r.Messages); n > StoredHistoryCap {
		r.Messages = r.Messages[n-StoredHistoryCap:]
	}
}

// History returns a copy of the most recent JoinHistoryCap messages in
// append order, suitable for replay to a fresh joiner.
func (r *Room) History() []Message {
	msgs := r.Messages
	if n := len(msgs); n > JoinHistoryCap {
		msgs = msgs[n-JoinHistoryCap:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
