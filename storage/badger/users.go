package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/storage"
)

// UserRepository implements storage.UserRepository for BadgerDB.
type UserRepository struct {
	backend *Backend
}

var _ storage.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(backend *Backend) (*UserRepository, error) {
	return &UserRepository{
		backend: backend,
	}, nil
}

// Close releases repository resources.
func (r *UserRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *UserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddUsers adds one or more users to storage.
func (r *UserRepository) AddUsers(ctx context.Context, users ...*core.User) ([]*core.User, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, user := range users {
			if err := core.ValidateUser(user); err != nil {
				return err
			}

			key := makeUserKey(user.Login)

			// Logins are primary keys; an existing record is a conflict
			existing, err := r.readUser(tx, key)
			if err != nil {
				return err
			}
			if existing != nil {
				return storage.ErrDuplicateKey
			}

			user.InsertedAt = time.Now().UTC()
			user.UpdatedAt = user.InsertedAt

			value := storage.MarshalUser(user)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return users, err
}

// UpdateUsers updates existing users.
func (r *UserRepository) UpdateUsers(ctx context.Context, users ...*core.User) ([]*core.User, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, user := range users {
			if err := core.ValidateUser(user); err != nil {
				return err
			}

			key := makeUserKey(user.Login)

			old, err := r.readUser(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			user.InsertedAt = old.InsertedAt
			user.UpdatedAt = time.Now().UTC()

			value := storage.MarshalUser(user)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return users, err
}

// DeleteUser removes a user by login.
func (r *UserRepository) DeleteUser(ctx context.Context, login string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUserKey(login)

		user, err := r.readUser(tx, key)
		if err != nil {
			return err
		}
		if user == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetUser retrieves a single user by login.
func (r *UserRepository) GetUser(ctx context.Context, login string) (*core.User, error) {
	var result *core.User
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUserKey(login)
		var err error
		result, err = r.readUser(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetAllUsers retrieves every user, ordered by login.
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*core.User, error) {
	return r.scanUsers(func(*core.User) bool { return true })
}

// GetManagers retrieves every user with the manager type, ordered by login.
func (r *UserRepository) GetManagers(ctx context.Context) ([]*core.User, error) {
	return r.scanUsers(func(u *core.User) bool { return u.Type == core.UserTypeManager })
}

// scanUsers iterates the user keyspace and collects users passing the filter.
// Keys are login-based, so Badger's lexicographic iteration yields login order.
func (r *UserRepository) scanUsers(keep func(*core.User) bool) ([]*core.User, error) {
	var results []*core.User
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(userRecordPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var user *core.User
			err := iter.Item().Value(func(val []byte) error {
				var err error
				user, err = storage.UnmarshalUser(val)
				return err
			})
			if err != nil {
				return err
			}
			if user != nil && keep(user) {
				results = append(results, user)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.User) int {
		return strings.Compare(a.Login, b.Login)
	})
	return results, nil
}

// readUser reads a user record from the transaction.
func (r *UserRepository) readUser(tx *badger.Txn, key []byte) (*core.User, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var user *core.User
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		user, unmarshalErr = storage.UnmarshalUser(val)
		return unmarshalErr
	})
	return user, err
}
