// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/courtdesk/pkg/convert"
)

/*
TestToBool accepts the checkbox and strconv spellings.
*/
func TestToBool(t *testing.T) {
	for _, truthy := range []string{"true", "1", "TRUE", "on", "Yes", " yes "} {
		assert.True(t, convert.ToBool(truthy), truthy)
	}
	for _, falsy := range []string{"", "0", "false", "off", "nope"} {
		assert.False(t, convert.ToBool(falsy), falsy)
	}
}

/*
TestToIntD falls back on empty or malformed input.
*/
func TestToIntD(t *testing.T) {
	assert.Equal(t, 3, convert.ToIntD("3", 1))
	assert.Equal(t, 3, convert.ToIntD(" 3 ", 1))
	assert.Equal(t, 1, convert.ToIntD("", 1))
	assert.Equal(t, 1, convert.ToIntD("x", 1))
	assert.Equal(t, -2, convert.ToIntD("-2", 1))
}
