package services

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain"
	"cool-chat/errors"
	"cool-chat/projection"
	"cool-chat/repositories"
	"fmt"
	"time"

	"github.com/samber/lo"
)

type IChatService interface {
	PostMessage(participant *domain.Participant, room domain.RoomID, content string) error
	JoinRoom(participant *domain.Participant, room domain.RoomID, sink contract.EventSink) error
	LeaveRoom(participant *domain.Participant, room domain.RoomID) error
	Disconnect(participant *domain.Participant) []domain.RoomID
	GetMessages(room domain.RoomID, cursor *string) ([]domain.Message, *string, error)
	Search(ctx context.Context, room domain.RoomID, text string) ([]domain.Message, error)
	Recent(room domain.RoomID) []domain.Message
	Rooms() []*domain.Room
}

type ChatService struct {
	orchestrator      contract.IOrchestrator
	messageRepository repositories.IMessageRepository
	searchRepository  repositories.ISearchRepository
	timeline          *projection.Timeline
	maxContentLength  int
	searchLimit       int
	now               func() time.Time
}

var _ IChatService = (*ChatService)(nil)

func NewChatService(o contract.IOrchestrator,
	messageRepository repositories.IMessageRepository,
	searchRepository repositories.ISearchRepository,
	timeline *projection.Timeline,
	maxContentLength, searchLimit int) *ChatService {
	return &ChatService{
		orchestrator:      o,
		messageRepository: messageRepository,
		searchRepository:  searchRepository,
		timeline:          timeline,
		maxContentLength:  maxContentLength,
		searchLimit:       searchLimit,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// PostMessage validates the content and hands it to the pipeline.
func (s *ChatService) PostMessage(participant *domain.Participant, room domain.RoomID, content string) error {
	if !participant.InChat() {
		return errors.ErrNotInChat
	}
	if err := validateRoom(room); err != nil {
		return err
	}
	if !s.orchestrator.IsParticipant(participant.ID, room) {
		return fmt.Errorf("%w: room %d", errors.ErrNotInRoom, room)
	}
	normalized, err := domain.NormalizeContent(content, s.maxContentLength)
	if err != nil {
		return err
	}
	return s.dispatch(domain.PostMessageCommand{
		Room:          int(room),
		ParticipantID: participant.ID,
		Author:        participant.Nickname,
		Content:       normalized,
		CreatedAt:     s.now(),
	})
}

// JoinRoom subscribes the participant's sink before announcing it, so the
// participant sees its own join notice.
func (s *ChatService) JoinRoom(participant *domain.Participant, room domain.RoomID, sink contract.EventSink) error {
	if !participant.InChat() {
		return errors.ErrNotInChat
	}
	if err := validateRoom(room); err != nil {
		return err
	}
	s.orchestrator.RegisterParticipant(participant.ID, room, sink)
	return s.dispatch(domain.JoinRoomCommand{
		Room:          int(room),
		ParticipantID: participant.ID,
		Nickname:      participant.Nickname,
	})
}

func (s *ChatService) LeaveRoom(participant *domain.Participant, room domain.RoomID) error {
	if err := validateRoom(room); err != nil {
		return err
	}
	s.orchestrator.UnregisterParticipant(participant.ID, room)
	return s.dispatch(domain.LeaveRoomCommand{
		Room:          int(room),
		ParticipantID: participant.ID,
		Nickname:      participant.Nickname,
	})
}

// Disconnect removes the participant from every room and announces the departure
// to each of them. Participants who never chose a nickname leave silently.
func (s *ChatService) Disconnect(participant *domain.Participant) []domain.RoomID {
	rooms := s.orchestrator.DisconnectParticipant(participant.ID)
	if !participant.InChat() {
		return rooms
	}
	for _, room := range rooms {
		_ = s.dispatch(domain.LeaveRoomCommand{
			Room:          int(room),
			ParticipantID: participant.ID,
			Nickname:      participant.Nickname,
		})
	}
	return rooms
}

// GetMessages returns a page of stored messages, newest first.
func (s *ChatService) GetMessages(room domain.RoomID, cursor *string) ([]domain.Message, *string, error) {
	if err := validateRoom(room); err != nil {
		return nil, nil, err
	}
	messages, next, err := s.messageRepository.GetMessages(int(room), cursor)
	if err != nil {
		return nil, nil, err
	}
	return fromDiskMessages(messages), next, nil
}

func (s *ChatService) Search(ctx context.Context, room domain.RoomID, text string) ([]domain.Message, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	messages, err := s.searchRepository.Search(ctx, int(room), text, s.searchLimit)
	if err != nil {
		return nil, err
	}
	return fromDiskMessages(messages), nil
}

// Recent returns the last sanitized messages seen by this server, oldest first.
func (s *ChatService) Recent(room domain.RoomID) []domain.Message {
	return s.timeline.Recent(room)
}

func (s *ChatService) Rooms() []*domain.Room {
	return s.orchestrator.Rooms()
}

func (s *ChatService) dispatch(cmd domain.Command) error {
	if !s.orchestrator.Dispatch(cmd) {
		return fmt.Errorf("%w: room %d", errors.ErrCommandDropped, cmd.RoomID())
	}
	return nil
}

func validateRoom(room domain.RoomID) error {
	if room <= 0 {
		return fmt.Errorf("%w: %d", errors.ErrInvalidRoom, room)
	}
	return nil
}

func fromDiskMessages(messages []repositories.DiskMessage) []domain.Message {
	return lo.Map(messages, func(item repositories.DiskMessage, _ int) domain.Message {
		return domain.Message{
			ID:        item.ID,
			Room:      domain.RoomID(item.Room),
			SenderID:  item.Author,
			Content:   item.Content,
			Lang:      item.Lang,
			CreatedAt: item.At,
		}
	})
}
