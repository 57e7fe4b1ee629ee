package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	log, err := New("dev", "debug")
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = New("prod", "warn")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("dev", "loudest")
	require.Error(t, err)
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "коро...", TruncateForLog("  короткая строка", 4))
	assert.Equal(t, "как есть", TruncateForLog("как есть", 20))
	assert.Equal(t, "", TruncateForLog("что угодно", 0))
}
