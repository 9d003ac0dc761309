package proxy

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectClient(t *testing.T) {
	c, err := NewHTTPClient("", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, c.Transport)
	assert.Equal(t, time.Minute, c.Timeout)
}

func TestSocksClient(t *testing.T) {
	c, err := NewHTTPClient("127.0.0.1:1080", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &http.Transport{}, c.Transport)
}
