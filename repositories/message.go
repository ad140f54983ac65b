//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message DiskMessage) error
	GetMessages(room int, cursor *string) ([]DiskMessage, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskMessage struct {
	ID      uuid.UUID
	Room    int
	Author  string
	Content string
	Lang    string
	At      time.Time
}

func messageKey(message DiskMessage) []byte {
	return []byte(fmt.Sprintf("msg:%d:%019d:%s",
		message.Room,
		message.At.UnixNano(),
		message.ID,
	))
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}" so that
// a prefix scan returns messages in chronological order and two messages
// sharing a nanosecond never collide.
func (m MessageRepository) StoreMessage(message DiskMessage) error {
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), MarshalMessage(message))
	})
}

// GetMessages returns one page of a room's messages, newest first.
// The returned cursor is the suffix of the last key read; passing it back
// resumes strictly after that message. A nil cursor means "no more pages".
func (m MessageRepository) GetMessages(room int, cursor *string) ([]DiskMessage, *string, error) {
	var diskMessages []DiskMessage
	var lastKey string
	exhausted := true

	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%d:", room)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		if cursor == nil {
			// Reverse iteration starts from the greatest possible key of the room
			seekKey = append([]byte(prefixStr), []byte("9999999999999999999~")...)
		} else {
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(diskMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				exhausted = false
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			err := item.Value(func(value []byte) error {
				message, err := UnmarshalMessage(value)
				if err != nil {
					return err
				}
				diskMessages = append(diskMessages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if exhausted {
		return diskMessages, nil, nil
	}
	return diskMessages, &lastKey, nil
}
