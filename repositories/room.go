//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"time"

	"chat-hub/domain"

	"github.com/dgraph-io/badger/v4"
)

type IRoomRepository interface {
	UpsertRoom(room Room) error
	RequiredRole(roomID string) (*string, error)
	ListRoomIDs(role string) (domain.Set, error)
	ListRooms(role string) ([]Room, error)
	RemoveRoom(roomID string) error
}

type RoomRepository struct {
	db *badger.DB
}

func NewRoomRepository(db *badger.DB) RoomRepository {
	return RoomRepository{db: db}
}

// Room is the repository-level representation of a chat room.
// Kind is "text" or "voice"; RequiredRole gates who may read and post.
type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	RequiredRole string    `json:"required_role"`
	CreatedAt    time.Time `json:"created_at"`
}

func roomKey(roomID string) []byte {
	return []byte("room:" + roomID)
}

func (r RoomRepository) UpsertRoom(room Room) error {
	bytes, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(roomKey(room.ID), bytes)
	})
}

// RequiredRole returns the role guarding a room, or nil when the room
// does not exist.
func (r RoomRepository) RequiredRole(roomID string) (*string, error) {
	var room Room
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(roomID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &room)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room.RequiredRole, nil
}

// ListRoomIDs returns the ids of every room the given role may access:
// rooms guarded by "user", rooms guarded by the role itself, and for admins
// every room there is. This is the allowed-room snapshot source.
func (r RoomRepository) ListRoomIDs(role string) (domain.Set, error) {
	ids := make(domain.Set)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("room:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var room Room
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &room)
			})
			if err != nil {
				return err
			}
			if domain.CanAccess(role, room.RequiredRole) {
				ids[room.ID] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListRooms returns full room records, filtered the same way as ListRoomIDs.
func (r RoomRepository) ListRooms(role string) ([]Room, error) {
	rooms := make([]Room, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("room:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var room Room
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &room)
			})
			if err != nil {
				return err
			}
			if domain.CanAccess(role, room.RequiredRole) {
				rooms = append(rooms, room)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r RoomRepository) RemoveRoom(roomID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(roomKey(roomID))
	})
}
