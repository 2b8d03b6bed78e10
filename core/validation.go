// Copyright 2025 SberCal Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateEventRecord validates an EventRecord according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Vector must not be empty
//
// NOT validated:
//   - Date (free-text, possibly unparsable; "date unknown" is a normal state)
//   - Vector dimension (checked against the rest of the corpus at load time)
func ValidateEventRecord(record *EventRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidEventRecord)
	}

	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEventRecord, ErrEmptyText)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEventRecord, ErrEmptyVector)
	}

	return nil
}

// ValidateUser validates a User according to domain rules.
//
// Validation rules:
//   - Login must not be empty
//   - Type must be valid
//   - Employees must have a manager login
func ValidateUser(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: user is nil", ErrInvalidUser)
	}

	if user.Login == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyLogin)
	}

	if err := ValidateUserType(user.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}

	if user.Type == UserTypeEmployee && user.ManagerLogin == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrMissingManager)
	}

	return nil
}

// ValidateRegistrationRequest validates a RegistrationRequest.
//
// Validation rules:
//   - UserLogin and ManagerLogin must not be empty
//   - EventText must not be empty
//   - Status must be valid
func ValidateRegistrationRequest(request *RegistrationRequest) error {
	if request == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if request.UserLogin == "" || request.ManagerLogin == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyLogin)
	}

	if request.EventText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyText)
	}

	if err := ValidateRequestStatus(request.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return nil
}

// ValidateUserType validates that a UserType has a valid value.
func ValidateUserType(userType UserType) error {
	switch userType {
	case UserTypeAdmin, UserTypeManager, UserTypeEmployee:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidUserType, userType)
}

// ValidateRequestStatus validates that a RequestStatus has a valid value.
func ValidateRequestStatus(status RequestStatus) error {
	switch status {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidRequestStatus, status)
}
