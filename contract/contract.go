//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"cool-chat/domain"
	"cool-chat/domain/event"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type IRegistry interface {
	GetSinksForRoom(roomID domain.RoomID) map[string]EventSink
	Subscribe(participantID string, roomID domain.RoomID, sink EventSink)
	Unsubscribe(participantID string, roomID domain.RoomID)
	UnsubscribeAll(participantID string) []domain.RoomID
	IsMember(participantID string, roomID domain.RoomID) bool
	Connections() int
}

type IOrchestrator interface {
	RegisterRoom(room *domain.Room)
	Rooms() []*domain.Room
	Dispatch(cmd domain.Command) bool
	RegisterParticipant(pID string, roomID domain.RoomID, sink EventSink)
	UnregisterParticipant(pID string, roomID domain.RoomID)
	DisconnectParticipant(pID string) []domain.RoomID
	IsParticipant(pID string, roomID domain.RoomID) bool
	Start(ctx context.Context) error
	Stop()
}
