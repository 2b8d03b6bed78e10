package storage

import (
	"context"

	"github.com/sbercal/sbercal/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// UserRepository provides operations for managing user accounts.
type UserRepository interface {
	Repository
	// AddUsers adds one or more users to storage.
	// Logins must be unique; returns ErrDuplicateKey otherwise.
	// Sets InsertedAt timestamp if not already set.
	// Returns the users with timestamps populated.
	AddUsers(ctx context.Context, users ...*core.User) ([]*core.User, error)

	// UpdateUsers updates existing users.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any user doesn't exist.
	UpdateUsers(ctx context.Context, users ...*core.User) ([]*core.User, error)

	// DeleteUser removes a user by login.
	// Returns ErrNotFound if the user doesn't exist.
	DeleteUser(ctx context.Context, login string) error

	// GetUser retrieves a single user by login.
	// Returns ErrNotFound if the user doesn't exist.
	GetUser(ctx context.Context, login string) (*core.User, error)

	// GetAllUsers retrieves every user, ordered by login.
	GetAllUsers(ctx context.Context) ([]*core.User, error)

	// GetManagers retrieves every user with the manager type, ordered by login.
	GetManagers(ctx context.Context) ([]*core.User, error)
}

// RequestRepository provides operations for managing registration requests.
type RequestRepository interface {
	Repository
	// AddRequests adds one or more registration requests to storage.
	// For requests with Id=0, generates new IDs from sequence.
	// Sets InsertedAt timestamp if not already set.
	// Returns the requests with generated IDs and timestamps populated.
	AddRequests(ctx context.Context, requests ...*core.RegistrationRequest) ([]*core.RegistrationRequest, error)

	// UpdateRequests updates existing registration requests.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any request doesn't exist.
	UpdateRequests(ctx context.Context, requests ...*core.RegistrationRequest) ([]*core.RegistrationRequest, error)

	// DeleteRequests removes registration requests by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any request doesn't exist.
	DeleteRequests(ctx context.Context, ids ...core.ID) error

	// GetRequest retrieves a single registration request by ID.
	// Returns ErrNotFound if the request doesn't exist.
	GetRequest(ctx context.Context, id core.ID) (*core.RegistrationRequest, error)

	// GetRequestsByManager retrieves requests routed to a manager, oldest first.
	// A zero status matches any status.
	GetRequestsByManager(ctx context.Context, managerLogin string, status core.RequestStatus) ([]*core.RegistrationRequest, error)

	// GetRequestsByUser retrieves requests submitted by a user, oldest first.
	GetRequestsByUser(ctx context.Context, userLogin string) ([]*core.RegistrationRequest, error)
}
