package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_TryBind_EnforcesCapacity(t *testing.T) {
	req := require.New(t)
	p := NewPresenceTracker()

	req.True(p.TryBind("R1", "s1", "Alice"))
	req.True(p.TryBind("R1", "s2", "Bob"))
	req.False(p.TryBind("R1", "s3", "Carol"))

	// Another room is unaffected.
	req.True(p.TryBind("R2", "s3", "Carol"))
}

func Test_MembersOf_KeepsBindingOrder(t *testing.T) {
	req := require.New(t)
	p := NewPresenceTracker()

	p.TryBind("R1", "s1", "Alice")
	p.TryBind("R1", "s2", "Bob")
	req.Equal([]string{"Alice", "Bob"}, p.MembersOf("R1"))

	p.Unbind("s1")
	req.Equal([]string{"Bob"}, p.MembersOf("R1"))
	req.True(p.TryBind("R1", "s3", "Carol"))
	req.Equal([]string{"Bob", "Carol"}, p.MembersOf("R1"))
}

func Test_Unbind_UnknownSessionIsNoop(t *testing.T) {
	p := NewPresenceTracker()
	p.Unbind("ghost")
	require.Empty(t, p.MembersOf("R1"))
}

func Test_Lookup(t *testing.T) {
	req := require.New(t)
	p := NewPresenceTracker()

	p.TryBind("R1", "s1", "Alice")
	code, name, ok := p.Lookup("s1")
	req.True(ok)
	req.Equal("R1", string(code))
	req.Equal("Alice", name)

	_, _, ok = p.Lookup("s2")
	req.False(ok)
}

func Test_Rebind_MovesSession(t *testing.T) {
	req := require.New(t)
	p := NewPresenceTracker()

	p.TryBind("R1", "s1", "Alice")
	req.True(p.TryBind("R2", "s1", "Alice"))
	req.Empty(p.MembersOf("R1"))
	req.Equal([]string{"Alice"}, p.MembersOf("R2"))
}
