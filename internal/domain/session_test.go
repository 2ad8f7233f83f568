package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionStatus(t *testing.T) {
	status, err := ParseSessionStatus(" Parked ")
	require.NoError(t, err)
	assert.Equal(t, StatusParked, status)

	status, err = ParseSessionStatus("exited")
	require.NoError(t, err)
	assert.Equal(t, StatusExited, status)

	_, err = ParseSessionStatus("towed")
	assert.Error(t, err)
}

func TestNormalizeLicensePlate(t *testing.T) {
	assert.Equal(t, "ABC-123", NormalizeLicensePlate("  abc-123 "))
	assert.Equal(t, "", NormalizeLicensePlate("   "))
}

func TestSession_IsActive(t *testing.T) {
	assert.True(t, (&Session{Status: StatusParked}).IsActive())
	assert.False(t, (&Session{Status: StatusExited}).IsActive())
}
