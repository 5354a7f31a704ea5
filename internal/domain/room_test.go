package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_NormalizeCode(t *testing.T) {
	req := require.New(t)
	req.Equal(RoomCode("ABC"), NormalizeCode("  abc "))
	req.Equal(RoomCode(""), NormalizeCode("   "))
	req.Len(string(NormalizeCode(strings.Repeat("x", 40))), MaxCodeLen)
}

func Test_CleanText_TrimsAndCaps(t *testing.T) {
	req := require.New(t)
	req.Equal("hello", CleanText("  hello \n", MaxTextLen))
	req.Equal("", CleanText(" \t ", MaxTextLen))
	// Cap counts runes, not bytes.
	req.Equal("héllo", CleanText("hélloworld", 5))
}

func Test_MessageKind_Media(t *testing.T) {
	req := require.New(t)
	req.True(KindImage.Media())
	req.True(KindAudio.Media())
	req.False(KindText.Media())
	req.False(MessageKind("video").Media())
}
