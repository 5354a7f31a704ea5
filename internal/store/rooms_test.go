package store

import (
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/pairchat/pairchat/internal/domain"
)

func openDB(t *testing.T, dir string) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	return db
}

func Test_CreateIfAbsent_IsIdempotent(t *testing.T) {
	req := require.New(t)
	db := openDB(t, t.TempDir())
	defer db.Close()

	s := New(db)
	first := s.CreateIfAbsent("ABC", "p1")
	req.Equal("p1", first.Password)

	// Second creation with another password must return the room unchanged.
	second := s.CreateIfAbsent("ABC", "p2")
	req.Same(first, second)
	req.Equal("p1", second.Password)
}

func Test_AppendMessage_CapsStoredHistory(t *testing.T) {
	req := require.New(t)
	db := openDB(t, t.TempDir())
	defer db.Close()

	s := New(db)
	s.CreateIfAbsent("CAP", "pw")
	for i := 0; i < domain.StoredHistoryCap+1; i++ {
		s.AppendMessage("CAP", domain.NewTextMessage("Alice", fmt.Sprintf("m%d", i)))
	}

	room, ok := s.Get("CAP")
	req.True(ok)
	req.Len(room.Messages, domain.StoredHistoryCap)
	// The oldest entry was dropped when the 501st arrived.
	req.Equal("m1", room.Messages[0].Text)
	req.Equal(fmt.Sprintf("m%d", domain.StoredHistoryCap), room.Messages[len(room.Messages)-1].Text)
}

func Test_History_BoundedAndOrdered(t *testing.T) {
	req := require.New(t)
	db := openDB(t, t.TempDir())
	defer db.Close()

	s := New(db)
	s.CreateIfAbsent("HIST", "pw")
	total := domain.JoinHistoryCap + 50
	for i := 0; i < total; i++ {
		s.AppendMessage("HIST", domain.NewTextMessage("Alice", fmt.Sprintf("m%d", i)))
	}

	room, _ := s.Get("HIST")
	history := room.History()
	req.Len(history, domain.JoinHistoryCap)
	req.Equal("m50", history[0].Text)
	req.Equal(fmt.Sprintf("m%d", total-1), history[len(history)-1].Text)
}

func Test_Reload_RoundTrip(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	db := openDB(t, dir)
	s := New(db)
	s.CreateIfAbsent("RT", "pw")
	msg := domain.NewTextMessage("Alice", "survives a restart")
	s.AppendMessage("RT", msg)
	req.NoError(db.Close())

	db = openDB(t, dir)
	defer db.Close()
	reloaded := New(db)
	room, ok := reloaded.Get("RT")
	req.True(ok)
	req.Equal("pw", room.Password)
	req.NotEmpty(room.Messages)
	req.Equal(msg, room.Messages[len(room.Messages)-1])
}

func Test_Load_SkipsUndecodableEntries(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	db := openDB(t, dir)
	s := New(db)
	s.CreateIfAbsent("GOOD", "pw")
	err := db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("room:BAD"), []byte("{not json"))
	})
	req.NoError(err)
	req.NoError(db.Close())

	db = openDB(t, dir)
	defer db.Close()
	reloaded := New(db)
	_, ok := reloaded.Get("GOOD")
	req.True(ok)
	_, ok = reloaded.Get("BAD")
	req.False(ok)
}

func Test_AppendMessage_UnknownRoomIsNoop(t *testing.T) {
	db := openDB(t, t.TempDir())
	defer db.Close()

	s := New(db)
	s.AppendMessage("NOPE", domain.NewTextMessage("Alice", "into the void"))
	_, ok := s.Get("NOPE")
	require.False(t, ok)
}
