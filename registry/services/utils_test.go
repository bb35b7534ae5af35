package services

import (
	"errors"
	"net/http"
	"testing"

	"barrier_registry/registry/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDateRange(t *testing.T) {
	off := "2024-06-01"
	require.NoError(t, validateDateRange("2024-01-01", &off))
	require.NoError(t, validateDateRange("2024-01-01", nil))
	require.NoError(t, validateDateRange("2024-06-01", &off))

	assert.Error(t, validateDateRange("2024-06-02", &off))
	assert.Error(t, validateDateRange("not-a-date", &off))
	assert.Error(t, validateDateRange("2024-13-40", nil))

	bad := "06/01/2024"
	assert.Error(t, validateDateRange("2024-01-01", &bad))
}

func TestCodedErrors(t *testing.T) {
	err := CodedError(schema.ErrDealNotFound, http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, GetResponseCode(err))
	assert.True(t, errors.Is(err, schema.ErrDealNotFound))
	assert.Equal(t, schema.ErrDealNotFound.Error(), err.Error())

	wrapped := CodedError(err, http.StatusConflict)
	assert.Equal(t, http.StatusConflict, GetResponseCode(wrapped))

	assert.Equal(t, http.StatusInternalServerError, GetResponseCode(errors.New("plain")))
}
