package blobcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Options_WithDefaults_FillsZeroValues(t *testing.T) {
	t.Parallel()

	got := Options{Path: "x"}.withDefaults()

	assert.Equal(t, 0.5, got.AutoVacuumThreshold)
	assert.NotNil(t, got.Clock)
}

func Test_Options_WithDefaults_PreservesExplicitValues(t *testing.T) {
	t.Parallel()

	fixed := time.Unix(1000, 0)
	clock := func() time.Time { return fixed }

	got := Options{Path: "x", AutoVacuumThreshold: 0.9, Clock: clock}.withDefaults()

	assert.Equal(t, 0.9, got.AutoVacuumThreshold)
	assert.Equal(t, fixed, got.Clock())
}

func Test_WithTTL_SetsCallOptions(t *testing.T) {
	t.Parallel()

	var call callOptions
	WithTTL(30 * time.Second)(&call)

	assert.True(t, call.hasTTL)
	assert.Equal(t, 30*time.Second, call.ttl)
}

func Test_WithRefresh_SetsCallOptions(t *testing.T) {
	t.Parallel()

	var call callOptions
	refresh := func(key string) (any, error) { return key, nil }
	WithRefresh(refresh)(&call)

	assert.True(t, call.hasRefresh)
	assert.NotNil(t, call.refresh)
}
