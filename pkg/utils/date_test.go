package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.Equal(t, time.February, date.Month())
	assert.Equal(t, 29, date.Day())

	empty, err := ParseDate("")
	assert.NoError(t, err)
	assert.Nil(t, empty)

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}
