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


package storage

import (
	"github.com/sbercal/sbercal/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalUser serializes a User to bytes.
func MarshalUser(user *core.User) []byte {
	buf := make([]byte, core.UserMUS.Size(*user))
	core.UserMUS.Marshal(*user, buf)
	return buf
}

// UnmarshalUser deserializes a User from bytes.
func UnmarshalUser(data []byte) (*core.User, error) {
	user, _, err := core.UserMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// MarshalRegistrationRequest serializes a RegistrationRequest to bytes.
func MarshalRegistrationRequest(request *core.RegistrationRequest) []byte {
	buf := make([]byte, core.RegistrationRequestMUS.Size(*request))
	core.RegistrationRequestMUS.Marshal(*request, buf)
	return buf
}

// UnmarshalRegistrationRequest deserializes a RegistrationRequest from bytes.
func UnmarshalRegistrationRequest(data []byte) (*core.RegistrationRequest, error) {
	request, _, err := core.RegistrationRequestMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
