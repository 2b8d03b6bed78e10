package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/storage"
)

// RequestRepository implements storage.RequestRepository for BadgerDB.
type RequestRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.RequestRepository = (*RequestRepository)(nil)

// NewRequestRepository creates a new RequestRepository.
func NewRequestRepository(backend *Backend) (*RequestRepository, error) {
	idSeq, err := backend.GetSequence(requestIDSeq)
	if err != nil {
		return nil, err
	}

	return &RequestRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *RequestRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *RequestRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRequests adds one or more registration requests to storage.
func (r *RequestRepository) AddRequests(ctx context.Context, requests ...*core.RegistrationRequest) ([]*core.RegistrationRequest, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, request := range requests {
			if err := core.ValidateRegistrationRequest(request); err != nil {
				return err
			}

			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			request.Id = core.ID(nextID)

			request.InsertedAt = time.Now().UTC()
			request.UpdatedAt = request.InsertedAt

			// Store primary record
			key := makeRequestKey(request.Id)
			value := storage.MarshalRegistrationRequest(request)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update manager index
			managerKey := makeRequestManagerKey(request.ManagerLogin, request.Id)
			if err := tx.Set(managerKey, storage.MarshalID(request.Id)); err != nil {
				return err
			}

			// Update submitter index
			userKey := makeRequestUserKey(request.UserLogin, request.Id)
			if err := tx.Set(userKey, storage.MarshalID(request.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return requests, err
}

// UpdateRequests updates existing registration requests.
func (r *RequestRepository) UpdateRequests(ctx context.Context, requests ...*core.RegistrationRequest) ([]*core.RegistrationRequest, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, request := range requests {
			if err := core.ValidateRegistrationRequest(request); err != nil {
				return err
			}

			key := makeRequestKey(request.Id)

			// Read old record to detect index changes
			old, err := r.readRequest(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			request.InsertedAt = old.InsertedAt
			request.UpdatedAt = time.Now().UTC()

			value := storage.MarshalRegistrationRequest(request)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update manager index if routing changed
			if old.ManagerLogin != request.ManagerLogin {
				oldKey := makeRequestManagerKey(old.ManagerLogin, old.Id)
				if err := tx.Delete(oldKey); err != nil {
					return err
				}
				newKey := makeRequestManagerKey(request.ManagerLogin, request.Id)
				if err := tx.Set(newKey, storage.MarshalID(request.Id)); err != nil {
					return err
				}
			}

			// Update submitter index if the submitter changed
			if old.UserLogin != request.UserLogin {
				oldKey := makeRequestUserKey(old.UserLogin, old.Id)
				if err := tx.Delete(oldKey); err != nil {
					return err
				}
				newKey := makeRequestUserKey(request.UserLogin, request.Id)
				if err := tx.Set(newKey, storage.MarshalID(request.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return requests, err
}

// DeleteRequests removes registration requests by their IDs.
func (r *RequestRepository) DeleteRequests(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRequestKey(id)

			// Read record to get metadata for index cleanup
			request, err := r.readRequest(tx, key)
			if err != nil {
				return err
			}
			if request == nil {
				return storage.ErrNotFound
			}

			managerKey := makeRequestManagerKey(request.ManagerLogin, request.Id)
			if err := tx.Delete(managerKey); err != nil {
				return err
			}

			userKey := makeRequestUserKey(request.UserLogin, request.Id)
			if err := tx.Delete(userKey); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRequest retrieves a single registration request by ID.
func (r *RequestRepository) GetRequest(ctx context.Context, id core.ID) (*core.RegistrationRequest, error) {
	var result *core.RegistrationRequest
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRequestKey(id)
		var err error
		result, err = r.readRequest(tx, key)
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

// GetRequestsByManager retrieves requests routed to a manager, oldest first.
// A zero status matches any status.
func (r *RequestRepository) GetRequestsByManager(ctx context.Context, managerLogin string, status core.RequestStatus) ([]*core.RegistrationRequest, error) {
	requests, err := r.collectByIndex(makePartialRequestManagerKey(managerLogin))
	if err != nil {
		return nil, err
	}
	if status == 0 {
		return requests, nil
	}

	filtered := requests[:0]
	for _, request := range requests {
		if request.Status == status {
			filtered = append(filtered, request)
		}
	}
	return filtered, nil
}

// GetRequestsByUser retrieves requests submitted by a user, oldest first.
func (r *RequestRepository) GetRequestsByUser(ctx context.Context, userLogin string) ([]*core.RegistrationRequest, error) {
	return r.collectByIndex(makePartialRequestUserKey(userLogin))
}

// collectByIndex walks an index prefix and resolves the referenced requests.
// Index keys embed BigEndian IDs, so iteration order is insertion order.
func (r *RequestRepository) collectByIndex(startKey []byte) ([]*core.RegistrationRequest, error) {
	var results []*core.RegistrationRequest
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) {
				break
			}
			if slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			// Read the ID from the index
			var requestID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				requestID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			request, err := r.readRequest(tx, makeRequestKey(requestID))
			if err != nil {
				return err
			}
			if request != nil {
				results = append(results, request)
			}
		}
		return nil
	}, false)

	return results, err
}

// readRequest reads a registration request from the transaction.
func (r *RequestRepository) readRequest(tx *badger.Txn, key []byte) (*core.RegistrationRequest, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var request *core.RegistrationRequest
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		request, unmarshalErr = storage.UnmarshalRegistrationRequest(val)
		return unmarshalErr
	})
	return request, err
}
