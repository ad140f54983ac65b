package domain

import (
	"time"
)

type Command interface {
	RoomID() RoomID
}

type PostMessageCommand struct {
	Room          int
	ParticipantID string
	Author        string
	Content       string
	CreatedAt     time.Time
}

func (p PostMessageCommand) RoomID() RoomID {
	return RoomID(p.Room)
}

type JoinRoomCommand struct {
	Room          int
	ParticipantID string
	Nickname      string
}

func (j JoinRoomCommand) RoomID() RoomID {
	return RoomID(j.Room)
}

type LeaveRoomCommand struct {
	Room          int
	ParticipantID string
	Nickname      string
}

func (l LeaveRoomCommand) RoomID() RoomID {
	return RoomID(l.Room)
}

type GetMessageCommand struct {
	Room   int
	Cursor *string
}

func (g GetMessageCommand) RoomID() RoomID {
	return RoomID(g.Room)
}
