package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEventRecord(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		record := &EventRecord{
			Date:   "2025-09-10",
			Text:   "Конференция по AI в Санкт-Петербурге",
			Vector: []float32{0.1, 0.2, 0.3},
		}
		require.NoError(t, ValidateEventRecord(record))
	})

	t.Run("nil record", func(t *testing.T) {
		err := ValidateEventRecord(nil)
		assert.ErrorIs(t, err, ErrInvalidEventRecord)
	})

	t.Run("empty text", func(t *testing.T) {
		err := ValidateEventRecord(&EventRecord{Vector: []float32{0.1}})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("empty vector", func(t *testing.T) {
		err := ValidateEventRecord(&EventRecord{Text: "митап"})
		assert.ErrorIs(t, err, ErrEmptyVector)
	})

	t.Run("unparsable date is allowed", func(t *testing.T) {
		record := &EventRecord{Date: "скоро", Text: "хакатон", Vector: []float32{1}}
		require.NoError(t, ValidateEventRecord(record))
	})
}

func TestValidateUser(t *testing.T) {
	t.Run("valid manager", func(t *testing.T) {
		user := &User{Login: "ivanovi", Type: UserTypeManager, FullName: "Иванов Иван"}
		require.NoError(t, ValidateUser(user))
	})

	t.Run("employee requires manager", func(t *testing.T) {
		user := &User{Login: "petrovp", Type: UserTypeEmployee}
		assert.ErrorIs(t, ValidateUser(user), ErrMissingManager)
	})

	t.Run("employee with manager", func(t *testing.T) {
		user := &User{Login: "petrovp", Type: UserTypeEmployee, ManagerLogin: "ivanovi"}
		require.NoError(t, ValidateUser(user))
	})

	t.Run("empty login", func(t *testing.T) {
		assert.ErrorIs(t, ValidateUser(&User{Type: UserTypeAdmin}), ErrEmptyLogin)
	})

	t.Run("invalid type", func(t *testing.T) {
		assert.ErrorIs(t, ValidateUser(&User{Login: "x", Type: 0}), ErrInvalidUserType)
	})
}

func TestValidateRegistrationRequest(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		request := &RegistrationRequest{
			UserLogin:    "petrovp",
			ManagerLogin: "ivanovi",
			EventDate:    "2025-09-10",
			EventText:    "Конференция по AI",
			Status:       RequestStatusPending,
		}
		require.NoError(t, ValidateRegistrationRequest(request))
	})

	t.Run("missing logins", func(t *testing.T) {
		err := ValidateRegistrationRequest(&RegistrationRequest{EventText: "x", Status: RequestStatusPending})
		assert.ErrorIs(t, err, ErrEmptyLogin)
	})

	t.Run("invalid status", func(t *testing.T) {
		err := ValidateRegistrationRequest(&RegistrationRequest{
			UserLogin: "a", ManagerLogin: "b", EventText: "x", Status: 42,
		})
		assert.ErrorIs(t, err, ErrInvalidRequestStatus)
	})
}
