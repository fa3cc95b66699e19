package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(1), asInt64(int64(1)))
	assert.Equal(t, int64(3), asInt64(3))
	assert.Equal(t, int64(7), asInt64(float64(7)))
	assert.Equal(t, int64(42), asInt64("42"))
	assert.Equal(t, int64(0), asInt64("nope"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "cache:faqs", faqsKey())
	assert.Equal(t, "lock:order:555:confirmation", confirmationKey(555))
}
