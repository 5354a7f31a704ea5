// Package store persists the room table in BadgerDB, one entry per
// normalized room code. The in-memory table is authoritative; disk writes
// are best-effort and never fail a caller.
package store

import (
	"encoding/json"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"

	"github.com/pairchat/pairchat/internal/domain"
)

const keyPrefix = "room:"

type RoomStore struct {
	mu    sync.RWMutex
	db    *badger.DB
	rooms map[domain.RoomCode]*domain.Room
}

// New loads the room table from db. Entries that fail to decode are skipped;
// an unreadable store degrades to an empty table rather than an error.
func New(db *badger.DB) *RoomStore {
	s := &RoomStore{
		db:    db,
		rooms: make(map[domain.RoomCode]*domain.Room),
	}
	s.load()
	return s
}

func (s *RoomStore) load() {
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			code := domain.RoomCode(item.Key()[len(prefix):])
			err := item.Value(func(val []byte) error {
				var room domain.Room
				if err := json.Unmarshal(val, &room); err != nil {
					log.Warn().Err(err).Str("module", "store").Str("room", string(code)).Msg("skipping undecodable room entry")
					return nil
				}
				room.Code = code
				s.rooms[code] = &room
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("module", "store").Msg("room table unreadable, starting empty")
		s.rooms = make(map[domain.RoomCode]*domain.Room)
		return
	}
	log.Info().Str("module", "store").Int("rooms", len(s.rooms)).Msg("room table loaded")
}

func (s *RoomStore) Get(code domain.RoomCode) (*domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	return room, ok
}

// CreateIfAbsent returns the existing room unchanged, ignoring the supplied
// password, or creates one with that password as its permanent password.
func (s *RoomStore) CreateIfAbsent(code domain.RoomCode, password string) *domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[code]; ok {
		return room
	}
	room := domain.NewRoom(code, password)
	s.rooms[code] = room
	s.persist(room)
	log.Info().Str("module", "store").Str("room", string(code)).Msg("room created")
	return room
}

// AppendMessage appends to the room's bounded history and flushes the entry.
// Unknown codes are ignored.
func (s *RoomStore) AppendMessage(code domain.RoomCode, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return
	}
	room.Append(msg)
	s.persist(room)
}

// persist rewrites the room's entry wholesale. A write failure is logged and
// swallowed: the in-memory table stays authoritative for the process
// lifetime. Callers hold s.mu, so writes per room never overlap.
func (s *RoomStore) persist(room *domain.Room) {
	val, err := json.Marshal(room)
	if err != nil {
		log.Error().Err(err).Str("module", "store").Str("room", string(room.Code)).Msg("room encode failed")
		return
	}
	key := []byte(keyPrefix + string(room.Code))
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
	if err != nil {
		log.Error().Err(err).Str("module", "store").Str("room", string(room.Code)).Msg("room flush failed, keeping in-memory state")
	}
}
