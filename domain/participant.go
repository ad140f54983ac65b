// Package domain contains core concepts of the chat system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"cool-chat/errors"
	"strings"
)

type ParticipantState int

const (
	AwaitingNickname ParticipantState = iota
	InChat
)

func (s ParticipantState) String() string {
	switch s {
	case AwaitingNickname:
		return "awaiting_nickname"
	case InChat:
		return "in_chat"
	default:
		return "unknown"
	}
}

// Participant is one connected user. Authenticated users skip the nickname phase.
type Participant struct {
	ID       string
	UserID   string
	Nickname string
	State    ParticipantState
}

func NewAnonymousParticipant(id string) *Participant {
	return &Participant{ID: id, State: AwaitingNickname}
}

func NewAuthenticatedParticipant(id, userID, login string) *Participant {
	return &Participant{ID: id, UserID: userID, Nickname: login, State: InChat}
}

// ChooseNickname moves the participant into the chat. Once in chat the nickname is fixed.
func (p *Participant) ChooseNickname(nickname string) error {
	if p.State == InChat {
		return nil
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return errors.ErrEmptyNickname
	}
	p.Nickname = nickname
	p.State = InChat
	return nil
}

func (p *Participant) InChat() bool {
	return p.State == InChat
}
