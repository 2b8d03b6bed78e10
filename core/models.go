package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EventRecord is a single entry of the event corpus. Records are produced by
// the ingestion pipeline and are immutable once loaded.
type EventRecord struct {
	Date   string    `json:"date"`   // original free-text date string, not normalized
	Text   string    `json:"text"`   // full descriptive text (title, city, description)
	Vector []float32 `json:"vector"` // unit-normalized embedding, fixed dimension per corpus
}

// RankedResult is an event that survived ranking and post-filtering.
// Score is the raw dot product of the query and event vectors; both are
// unit-normalized, so it equals cosine similarity.
type RankedResult struct {
	Date  string
	Text  string
	Score float32
}

// CalendarEvent is a calendar-ready event with a canonical YYYY-MM-DD date.
// It is produced only for results whose date could be parsed.
type CalendarEvent struct {
	Date string
	Text string
}

// Answer is the orchestrator's response to a single query.
type Answer struct {
	Response string
	Events   []CalendarEvent
}

// UserType identifies the role of a user account.
type UserType int

const (
	// UserTypeAdmin can manage accounts through the admin panel.
	UserTypeAdmin UserType = iota + 1
	// UserTypeManager approves or rejects subordinates' registration requests.
	UserTypeManager
	// UserTypeEmployee is a regular user assigned to a manager.
	UserTypeEmployee
)

// User is an account of the assistant.
type User struct {
	Login          string
	PasswordDigest string
	Type           UserType
	FullName       string
	Email          string
	ManagerLogin   string // set for employees only
	InsertedAt     time.Time
	UpdatedAt      time.Time
}

// PasswordDigest computes the stored digest for a login/password pair.
// The login acts as a per-user salt.
func PasswordDigest(login, password string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(login))
	h.Write([]byte{0})
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

// RequestStatus is the lifecycle state of a registration request.
type RequestStatus int

const (
	// RequestStatusPending awaits a manager decision.
	RequestStatusPending RequestStatus = iota + 1
	// RequestStatusApproved was accepted by the manager.
	RequestStatusApproved
	// RequestStatusRejected was declined by the manager.
	RequestStatusRejected
)

// RegistrationRequest is an employee's request to attend an event,
// routed to their manager for approval.
type RegistrationRequest struct {
	Id           ID
	UserLogin    string
	ManagerLogin string
	EventDate    string // original free-text date of the event
	EventText    string
	Status       RequestStatus
	InsertedAt   time.Time
	UpdatedAt    time.Time
}
