// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/authkit/pkg/pointer"
)

/*
TestFallback verifies omitted fields keep the current value.
*/
func TestFallback(t *testing.T) {
	assert.Equal(t, "current", pointer.Fallback(nil, "current"))
	assert.Equal(t, "", pointer.Fallback(pointer.To(""), "current"))
	assert.True(t, pointer.Fallback(pointer.To(true), false))
}
