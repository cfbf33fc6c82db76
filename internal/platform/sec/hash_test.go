// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/accounts/internal/platform/sec"
)

/*
TestPasswordHash verifies hashing and comparison, including accounts without a password.
*/
func TestPasswordHash(t *testing.T) {
	hashed, err := sec.HashPassword("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hashed)

	assert.True(t, sec.CheckPasswordHash("pw1", hashed))
	assert.False(t, sec.CheckPasswordHash("pw2", hashed))
	assert.False(t, sec.CheckPasswordHash("", ""))
	assert.False(t, sec.CheckPasswordHash("pw1", ""))

	assert.NotPanics(t, func() { sec.BurnPasswordCheck("anything") })
}
