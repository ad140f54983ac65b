// Package runtime handles event production and propagation.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"context"
	"cool-chat/contract"
	"cool-chat/domain"
	"cool-chat/domain/event"
	"cool-chat/moderation"
	"cool-chat/runtime/workers"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

//go:embed censored/*
var censoredFolder embed.FS

var _ contract.IOrchestrator = (*Orchestrator)(nil)

type Orchestrator struct {
	mu              sync.Mutex
	log             *slog.Logger
	numWorkers      int
	historyLimit    int
	rooms           map[domain.RoomID]*domain.Room
	permanentSinks  []contract.EventSink
	supervisor      contract.ISupervisor
	registry        contract.IRegistry
	commandShards   []chan domain.Command
	rawEvents       chan event.DomainEvent
	domainEvents    chan event.DomainEvent
	sinkTimeout     time.Duration
	charReplacement rune
	onDrop          func(cmd domain.Command)
	cancel          context.CancelFunc
	done            chan struct{}
	started         bool
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, numWorkers, bufferSize int,
	sinkTimeout time.Duration, charReplacement rune, historyLimit int) *Orchestrator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	shards := make([]chan domain.Command, numWorkers)
	for i := range shards {
		shards[i] = make(chan domain.Command, bufferSize)
	}
	o := &Orchestrator{
		log:             log,
		numWorkers:      numWorkers,
		historyLimit:    historyLimit,
		rooms:           make(map[domain.RoomID]*domain.Room),
		supervisor:      supervisor,
		registry:        registry,
		commandShards:   shards,
		rawEvents:       make(chan event.DomainEvent, bufferSize),
		domainEvents:    make(chan event.DomainEvent, bufferSize),
		sinkTimeout:     sinkTimeout,
		charReplacement: charReplacement,
		done:            make(chan struct{}),
	}
	o.RegisterRoom(domain.NewRoom(int(domain.DefaultRoom), "general"))
	return o
}

// RegisterRoom makes a room known to the orchestrator. Registering an existing ID is a no-op.
func (o *Orchestrator) RegisterRoom(room *domain.Room) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.rooms[room.ID]; ok {
		o.log.Debug(fmt.Sprintf("Room %d already exists", room.ID))
		return
	}
	o.rooms[room.ID] = room
}

// Rooms lists the known rooms ordered by ID.
func (o *Orchestrator) Rooms() []*domain.Room {
	o.mu.Lock()
	defer o.mu.Unlock()
	rooms := make([]*domain.Room, 0, len(o.rooms))
	for _, room := range o.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

// room is the resolver handed to the pool: unknown rooms are created on first use.
func (o *Orchestrator) room(id domain.RoomID) *domain.Room {
	o.mu.Lock()
	defer o.mu.Unlock()
	if room, ok := o.rooms[id]; ok {
		return room
	}
	room := domain.NewRoom(int(id), fmt.Sprintf("room-%d", id))
	o.rooms[id] = room
	o.log.Info("Room created", "room", id)
	return room
}

// Add registers permanent sinks. Must be called before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// OnDrop installs a hook called whenever Dispatch drops a command.
func (o *Orchestrator) OnDrop(hook func(cmd domain.Command)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onDrop = hook
}

// Dispatch never blocks: when the room's queue is full the command is dropped.
func (o *Orchestrator) Dispatch(cmd domain.Command) bool {
	select {
	case o.shardFor(cmd.RoomID()) <- cmd:
		return true
	default:
		o.log.Warn(fmt.Sprintf("Command channel full for room %d, dropping command", cmd.RoomID()))
		o.mu.Lock()
		hook := o.onDrop
		o.mu.Unlock()
		if hook != nil {
			hook(cmd)
		}
		return false
	}
}

func (o *Orchestrator) shardFor(id domain.RoomID) chan domain.Command {
	i := int(id) % o.numWorkers
	if i < 0 {
		i = -i
	}
	return o.commandShards[i]
}

// Channels exposes the pipeline channels for sampling.
func (o *Orchestrator) Channels() []workers.NamedChannel {
	channels := make([]workers.NamedChannel, 0, len(o.commandShards)+2)
	for i, shard := range o.commandShards {
		channels = append(channels, workers.NamedChannel{Name: fmt.Sprintf("commands-%d", i), Channel: shard})
	}
	return append(channels,
		workers.NamedChannel{Name: "raw_events", Channel: o.rawEvents},
		workers.NamedChannel{Name: "domain_events", Channel: o.domainEvents},
	)
}

func (o *Orchestrator) RegisterParticipant(pID string, roomID domain.RoomID, sink contract.EventSink) {
	o.registry.Subscribe(pID, roomID, sink)
}

func (o *Orchestrator) UnregisterParticipant(pID string, roomID domain.RoomID) {
	o.registry.Unsubscribe(pID, roomID)
}

// DisconnectParticipant removes the participant from every room and returns those rooms.
func (o *Orchestrator) DisconnectParticipant(pID string) []domain.RoomID {
	return o.registry.UnsubscribeAll(pID)
}

// IsParticipant reports whether the participant currently belongs to the room.
func (o *Orchestrator) IsParticipant(pID string, roomID domain.RoomID) bool {
	return o.registry.IsMember(pID, roomID)
}

// Start prepares the workers (pool, moderation, fanout), hands them to the
// supervisor and returns once the supervisor runs in the background.
func (o *Orchestrator) Start(ctx context.Context) error {
	// Heavy work (file loading, automaton build) is done without the lock.
	moderationWorker, err := o.prepareModeration(o.charReplacement)
	if err != nil {
		return err
	}
	poolWorkers := o.preparePoolWorkers()

	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already started")
	}
	o.started = true
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	sinks := append([]contract.EventSink(nil), o.permanentSinks...)
	o.mu.Unlock()

	fanoutWorker := workers.NewEventFanout(o.log, sinks, o.registry, o.domainEvents, o.sinkTimeout)

	o.supervisor.Add(moderationWorker, fanoutWorker)
	o.supervisor.Add(poolWorkers...)

	o.log.Info("Starting orchestrator and all supervised workers",
		"pool", len(poolWorkers), "sinks", len(sinks))
	go func() {
		defer close(o.done)
		o.supervisor.Run(runCtx)
	}()
	return nil
}

func (o *Orchestrator) preparePoolWorkers() []contract.Worker {
	res := make([]contract.Worker, 0, o.numWorkers)
	for _, shard := range o.commandShards {
		res = append(res, workers.NewPoolUnitWorker(o.room, shard, o.rawEvents, o.historyLimit, o.log))
	}
	return res
}

// prepareModeration loads censored words and builds the Aho-Corasick automaton.
func (o *Orchestrator) prepareModeration(charReplacement rune) (contract.Worker, error) {
	loader := NewCensoredLoader(censoredFolder)
	data, err := loader.LoadAll("censored")
	if err != nil {
		return nil, err
	}

	o.log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	o.log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))

	moderator, err := moderation.NewModerator(data.Words, charReplacement, o.log)
	if err != nil {
		return nil, err
	}
	return workers.NewModerationWorker(moderator, o.rawEvents, o.domainEvents, o.log), nil
}

// Stop cancels the supervised workers and waits for them to return.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.mu.Lock()
	started, cancel := o.started, o.cancel
	o.mu.Unlock()
	if !started {
		return
	}
	cancel()
	o.supervisor.Stop()
	<-o.done
	o.log.Debug("Orchestrator stopped")
}
