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

package admin

import (
	"context"
	"testing"

	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/storage"
	badgerstore "github.com/sbercal/sbercal/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsers(t *testing.T) storage.UserRepository {
	t.Helper()

	users, requests, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		users.Close()
		requests.Close()
		backend.Close()
	})
	return users
}

func TestGenerateLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("surname plus initial", func(t *testing.T) {
		users := newTestUsers(t)

		login, err := GenerateLogin(ctx, users, "Иванов Иван Петрович")
		require.NoError(t, err)
		assert.Equal(t, "иванови", login)
	})

	t.Run("single word name", func(t *testing.T) {
		users := newTestUsers(t)

		login, err := GenerateLogin(ctx, users, "Сидоров")
		require.NoError(t, err)
		assert.Equal(t, "сидоров", login)
	})

	t.Run("punctuation stripped", func(t *testing.T) {
		users := newTestUsers(t)

		login, err := GenerateLogin(ctx, users, "О'Коннор Шон")
		require.NoError(t, err)
		assert.Equal(t, "оконнорш", login)
	})

	t.Run("collision gets numeric suffix", func(t *testing.T) {
		users := newTestUsers(t)
		_, err := users.AddUsers(ctx, &core.User{
			Login:    "иванови",
			Type:     core.UserTypeManager,
			FullName: "Иванов Игорь",
		})
		require.NoError(t, err)

		login, err := GenerateLogin(ctx, users, "Иванов Иван")
		require.NoError(t, err)
		assert.Equal(t, "иванови2", login)
	})

	t.Run("long name capped", func(t *testing.T) {
		users := newTestUsers(t)

		login, err := GenerateLogin(ctx, users, "Константинопольскийвеликолепный Ким")
		require.NoError(t, err)
		assert.LessOrEqual(t, len([]rune(login)), maxLoginLength)
	})

	t.Run("empty name", func(t *testing.T) {
		users := newTestUsers(t)

		_, err := GenerateLogin(ctx, users, "   ")
		assert.Error(t, err)
	})
}

func TestGeneratePassword(t *testing.T) {
	first, err := GeneratePassword()
	require.NoError(t, err)
	second, err := GeneratePassword()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
