// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authkit/internal/platform/sec"
)

/*
TestGenerateSecureToken verifies length and uniqueness of random tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(64)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(64)
	require.NoError(t, err)

	assert.Len(t, first, 128)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken verifies the digest is deterministic and never the raw value.
*/
func TestHashToken(t *testing.T) {
	hash := sec.HashToken("raw-token")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, sec.HashToken("raw-token"))
	assert.NotEqual(t, hash, sec.HashToken("raw-token2"))
	assert.NotContains(t, hash, "raw-token")
}

/*
TestPasswordHash verifies bcrypt round trip.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("hunter22", hash))
	assert.False(t, sec.CheckPasswordHash("hunter23", hash))
	assert.False(t, sec.CheckPasswordHash("hunter22", "not-a-hash"))
}

/*
TestUserRole verifies role validity.
*/
func TestUserRole(t *testing.T) {
	assert.True(t, sec.RoleUser.Valid())
	assert.True(t, sec.RoleCreator.Valid())
	assert.True(t, sec.RoleAdmin.Valid())
	assert.False(t, sec.UserRole("root").Valid())
}
