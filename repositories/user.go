//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"cool-chat/errors"
	stderrors "errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(login, hashedPassword string) (string, error)
	GetUserByLogin(login string) (User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the stored representation of an account.
type User struct {
	ID           string
	Login        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

func userKey(login string) []byte {
	return []byte("user:" + login)
}

// CreateUser persists a new account under "user:{login}" and returns its generated ID.
// The existence check and the write happen in the same transaction.
func (u *UserRepository) CreateUser(login, hashedPassword string) (string, error) {
	user := User{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UTC(),
	}
	data := MarshalUser(user)

	err := u.db.Update(func(txn *badger.Txn) error {
		key := userKey(login)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// GetUserByLogin returns ErrUserNotFound when no account exists for login.
func (u *UserRepository) GetUserByLogin(login string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(login))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := UnmarshalUser(val)
			user = decoded
			return err
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}
