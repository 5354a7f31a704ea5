package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindAudio MessageKind = "audio"
)

// Media reports whether the kind carries an uploaded asset reference.
func (k MessageKind) Media() bool {
	return k == KindImage || k == KindAudio
}

// Message is immutable once constructed. Text is set for KindText,
// URL for media kinds; the other field stays empty.
type Message struct {
	ID   string      `json:"id"`
	Kind MessageKind `json:"type"`
	Name string      `json:"name"`
	Text string      `json:"text,omitempty"`
	URL  string      `json:"url,omitempty"`
	TS   int64       `json:"ts"`
}

func NewTextMessage(name, text string) Message {
	return Message{
		ID:   uuid.NewString(),
		Kind: KindText,
		Name: name,
		Text: text,
		TS:   time.Now().UnixMilli(),
	}
}

func NewMediaMessage(kind MessageKind, name, url string) Message {
	return Message{
		ID:   uuid.NewString(),
		Kind: kind,
		Name: name,
		URL:  url,
		TS:   time.Now().UnixMilli(),
	}
}
