package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyManager_Rotation(t *testing.T) {
	pm := NewProxyManager([]string{"10.0.0.1:8080", "", "ftp://bad:21", "https://10.0.0.2:443"}, "")
	require.True(t, pm.HasProxies())

	p, err := pm.GetCurrentProxy()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1:8080", p)

	pm.RotateProxy()
	p, _ = pm.GetCurrentProxy()
	assert.Equal(t, "https://10.0.0.2:443", p)

	pm.RotateProxy()
	p, _ = pm.GetCurrentProxy()
	assert.Equal(t, "http://10.0.0.1:8080", p)
}

func TestProxyManager_Empty(t *testing.T) {
	pm := NewProxyManager(nil, "candle-chart/1.0")
	assert.False(t, pm.HasProxies())

	p, err := pm.GetCurrentProxy()
	assert.NoError(t, err)
	assert.Empty(t, p)
	assert.Equal(t, "candle-chart/1.0", pm.GetUserAgent())
}
