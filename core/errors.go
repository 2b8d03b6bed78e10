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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEventRecord indicates an EventRecord failed validation.
	ErrInvalidEventRecord = errors.New("invalid event record")

	// ErrInvalidUser indicates a User failed validation.
	ErrInvalidUser = errors.New("invalid user")

	// ErrInvalidRequest indicates a RegistrationRequest failed validation.
	ErrInvalidRequest = errors.New("invalid registration request")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyVector indicates the Vector field is empty.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrEmptyLogin indicates the Login field is empty.
	ErrEmptyLogin = errors.New("login cannot be empty")

	// ErrInvalidUserType indicates an invalid UserType value.
	ErrInvalidUserType = errors.New("invalid user type")

	// ErrInvalidRequestStatus indicates an invalid RequestStatus value.
	ErrInvalidRequestStatus = errors.New("invalid request status")

	// ErrMissingManager indicates an employee account without a manager.
	ErrMissingManager = errors.New("employee must have a manager")
)
