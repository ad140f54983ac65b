package runtime

import (
	"cool-chat/contract"
	"cool-chat/domain"
	"sort"
	"sync"
)

type Set map[string]struct{}

// Registry maps connected participants to their sink and tracks which rooms they listen to.
type Registry struct {
	mu               sync.RWMutex
	Sessions         map[string]contract.EventSink   // participant -> sink
	RoomMembers      map[domain.RoomID]Set           // room -> participants
	participantRooms map[string]map[domain.RoomID]struct{}
}

var _ contract.IRegistry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		Sessions:         make(map[string]contract.EventSink),
		RoomMembers:      make(map[domain.RoomID]Set),
		participantRooms: make(map[string]map[domain.RoomID]struct{}),
	}
}

// GetSinksForRoom resolves the members of a room into their sinks, keyed by participant.
// Returns nil if the room has no members.
func (r *Registry) GetSinksForRoom(roomID domain.RoomID) map[string]contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[roomID]
	if !ok {
		return nil
	}
	activeSinks := make(map[string]contract.EventSink, len(members))
	for participantID := range members {
		if sink, exists := r.Sessions[participantID]; exists {
			activeSinks[participantID] = sink
		}
	}
	return activeSinks
}

// IsMember reports whether the participant is subscribed to the room.
func (r *Registry) IsMember(participantID string, roomID domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.RoomMembers[roomID][participantID]
	return ok
}

// Subscribe registers the participant's sink and adds them to the room.
// A participant has a single sink shared by all of their rooms.
func (r *Registry) Subscribe(participantID string, roomID domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[participantID] = sink

	if _, ok := r.RoomMembers[roomID]; !ok {
		r.RoomMembers[roomID] = make(Set)
	}
	r.RoomMembers[roomID][participantID] = struct{}{}

	if _, ok := r.participantRooms[participantID]; !ok {
		r.participantRooms[participantID] = make(map[domain.RoomID]struct{})
	}
	r.participantRooms[participantID][roomID] = struct{}{}
}

// Unsubscribe removes the participant from one room. The session is dropped
// together with the last room, and empty rooms are removed.
func (r *Registry) Unsubscribe(participantID string, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribe(participantID, roomID)
}

// UnsubscribeAll removes the participant everywhere and returns the rooms they were in, sorted.
func (r *Registry) UnsubscribeAll(participantID string) []domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rooms []domain.RoomID
	for roomID := range r.participantRooms[participantID] {
		rooms = append(rooms, roomID)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i] < rooms[j] })
	for _, roomID := range rooms {
		r.unsubscribe(participantID, roomID)
	}
	delete(r.Sessions, participantID)
	return rooms
}

func (r *Registry) unsubscribe(participantID string, roomID domain.RoomID) {
	if members, ok := r.RoomMembers[roomID]; ok {
		delete(members, participantID)
		if len(members) == 0 {
			delete(r.RoomMembers, roomID)
		}
	}
	if rooms, ok := r.participantRooms[participantID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(r.participantRooms, participantID)
			delete(r.Sessions, participantID)
		}
	}
}

// Connections is the number of participants listening to at least one room.
func (r *Registry) Connections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Sessions)
}
