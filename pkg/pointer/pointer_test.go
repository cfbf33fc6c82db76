// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/accounts/pkg/pointer"
)

func TestVal(t *testing.T) {
	assert.Equal(t, "Ann", pointer.Val(pointer.To("Ann")))
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, 0, pointer.Val[int](nil))
}
