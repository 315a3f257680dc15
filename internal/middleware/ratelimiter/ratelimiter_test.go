package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_ConsumesCapacity(t *testing.T) {
	l := New(0.001, 2, time.Hour) // effectively no refill during the test

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "capacity exhausted")
}

func TestAllow_IdentitiesAreIndependent(t *testing.T) {
	l := New(0.001, 1, time.Hour)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "a separate identity has its own bucket")
}

func TestAllow_Refills(t *testing.T) {
	l := New(100, 1, time.Hour) // 100 tokens/sec

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, l.Allow("a"), "bucket should refill over time")
}

func TestIdleBucketExpires(t *testing.T) {
	l := New(0.001, 1, 10*time.Millisecond)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	time.Sleep(50 * time.Millisecond)

	// expired bucket was dropped, so the identity starts fresh
	assert.True(t, l.Allow("a"))
}
