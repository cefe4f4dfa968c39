//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"

	"chat-hub/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	UpsertUser(user User) error
	Role(userID string) (*string, error)
	AssignRole(userID, role string) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

// User is the repository-level representation of an account.
// Credentials live elsewhere; the hub only needs identity and role.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	AvatarColor int    `json:"avatar_color"`
}

func userKey(userID string) []byte {
	return []byte("user:" + userID)
}

func (u UserRepository) UpsertUser(user User) error {
	bytes, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.ID), bytes)
	})
}

// Role returns the role of a user, or nil when the user does not exist.
func (u UserRepository) Role(userID string) (*string, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user.Role, nil
}

// AssignRole rewrites the stored role of an existing user. The read and the
// write share one transaction so concurrent assignments cannot interleave.
func (u UserRepository) AssignRole(userID, role string) error {
	err := u.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(userID))
		if err != nil {
			return err
		}
		var user User
		if err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		}); err != nil {
			return err
		}
		user.Role = role
		bytes, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return txn.Set(userKey(userID), bytes)
	})
	if err == badger.ErrKeyNotFound {
		return errors.ErrUnknownUser
	}
	return err
}
