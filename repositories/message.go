//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message DiskMessage) error
	GetMessages(roomID string, cursor *string) ([]DiskMessage, *string, error)
	DeleteMessage(roomID, messageID string) error
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// DiskMessage is the repository-level representation of a stored chat message.
type DiskMessage struct {
	ID        uuid.UUID
	RoomID    string
	UserID    string
	Username  string
	Content   string
	ReplyToID *string
	ImageURL  *string
	At        time.Time
}

// DeleteMessage removes a message from a room. The timestamp part of the key
// is unknown to callers, so the room prefix is scanned for the id suffix.
// Deleting an absent message is a no-op.
func (m MessageRepository) DeleteMessage(roomID, messageID string) error {
	suffix := ":" + messageID
	return m.db.Update(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("msg:%s:", roomID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if strings.HasSuffix(string(key), suffix) {
				return txn.Delete(key)
			}
		}
		return nil
	})
}

// diskRecord is the JSON shape written to badger. Timestamps are kept as
// UnixNano so records round-trip without timezone surprises.
type diskRecord struct {
	ID        string  `json:"id"`
	RoomID    string  `json:"room_id"`
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"`
	Content   string  `json:"content"`
	ReplyToID *string `json:"reply_to_id,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
	At        int64   `json:"at"`
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(message DiskMessage) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.RoomID,
		message.At.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(fromDiskMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		err = txn.Set([]byte(key), bytes)
		return err
	})
}

// GetMessages retrieves messages for a specific room using a prefix scan.
// Thanks to the padded timestamp in the key, messages are naturally sorted by time.
// It stops collecting messages once the configured limitMessages is reached.
func (m MessageRepository) GetMessages(roomID string, cursor *string) ([]DiskMessage, *string, error) {
	var rawMessages [][]byte
	var diskMessages []DiskMessage
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", roomID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible key, then walk backwards
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(rawMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawMessages = append(rawMessages, append([]byte(nil), value...))
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

	for _, b := range rawMessages {
		var record diskRecord
		if err = json.Unmarshal(b, &record); err != nil {
			return nil, nil, err
		}
		message, err := toDiskMessage(record)
		if err != nil {
			return nil, nil, err
		}
		diskMessages = append(diskMessages, message)
	}
	return diskMessages, &lastKey, err
}

func fromDiskMessage(message DiskMessage) diskRecord {
	return diskRecord{
		ID:        message.ID.String(),
		RoomID:    message.RoomID,
		UserID:    message.UserID,
		Username:  message.Username,
		Content:   message.Content,
		ReplyToID: message.ReplyToID,
		ImageURL:  message.ImageURL,
		At:        message.At.UnixNano(),
	}
}

func toDiskMessage(record diskRecord) (DiskMessage, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return DiskMessage{}, err
	}
	return DiskMessage{
		ID:        parsedID,
		RoomID:    record.RoomID,
		UserID:    record.UserID,
		Username:  record.Username,
		Content:   record.Content,
		ReplyToID: record.ReplyToID,
		ImageURL:  record.ImageURL,
		At:        time.Unix(0, record.At).UTC(),
	}, nil
}
