package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGauges(t *testing.T) {
	require.NoError(t, InitMetrics(""))
	defer Close()

	_, ok := Latest("catalog_productos")
	assert.False(t, ok)

	SetGauge("catalog_productos", 5)
	SetGauge("system_memuse", 2048)

	v, ok := Latest("catalog_productos")
	require.True(t, ok)
	assert.EqualValues(t, 5, v)

	snap := Snapshot()
	assert.Equal(t, map[string]int64{"catalog_productos": 5, "system_memuse": 2048}, snap)
}

func TestSetGaugeWithoutStorage(t *testing.T) {
	require.NoError(t, Close())

	SetGauge("ignored", 1)
	_, ok := Latest("ignored")
	assert.False(t, ok)
	assert.Empty(t, Snapshot())
}
