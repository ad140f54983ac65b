package domain

import (
	"cool-chat/errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRoom_JoinLeave(t *testing.T) {
	req := require.New(t)
	room := NewRoom(2, "random")

	req.True(room.Join("alice"))
	req.False(room.Join("alice"))
	req.True(room.Has("alice"))
	req.Equal(1, room.Size())

	req.True(room.Leave("alice"))
	req.False(room.Leave("alice"))
	req.Zero(room.Size())
}

func TestRoom_PostMessage_KeepsLastMessages(t *testing.T) {
	req := require.New(t)
	room := NewRoom(1, "general")

	for _, content := range []string{"one", "two", "three"} {
		room.PostMessage(Message{ID: uuid.New(), Room: 1, SenderID: "alice",
			Content: content, CreatedAt: time.Now()}, 2)
	}

	messages := room.Messages()
	req.Len(messages, 2)
	req.Equal("two", messages[0].Content)
	req.Equal("three", messages[1].Content)

	messages[0].Content = "changed"
	req.Equal("two", room.Messages()[0].Content)
}

func TestNormalizeContent(t *testing.T) {
	req := require.New(t)

	content, err := NormalizeContent("  hello  ", 10)
	req.NoError(err)
	req.Equal("hello", content)

	_, err = NormalizeContent(" \t\n", 10)
	req.ErrorIs(err, errors.ErrEmptyContent)

	_, err = NormalizeContent(strings.Repeat("é", 11), 10)
	req.ErrorIs(err, errors.ErrContentTooLong)

	_, err = NormalizeContent(strings.Repeat("é", 11), 0)
	req.NoError(err)
}

func TestParticipant_ChooseNickname(t *testing.T) {
	req := require.New(t)
	p := NewAnonymousParticipant("conn-1")
	req.False(p.InChat())

	req.ErrorIs(p.ChooseNickname("   "), errors.ErrEmptyNickname)
	req.False(p.InChat())

	req.NoError(p.ChooseNickname(" bob "))
	req.True(p.InChat())
	req.Equal("bob", p.Nickname)

	req.NoError(p.ChooseNickname("eve"))
	req.Equal("bob", p.Nickname)
}
