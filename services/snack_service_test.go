package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSnackValidation(t *testing.T) {
	_, err := CreateSnack(1, "06/01/2025", "protein bar")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = CreateSnack(1, "2025-01-06", "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSnackLifecycle(t *testing.T) {
	useTestDB(t)

	snack, err := CreateSnack(1, "2025-01-06", "apple with peanut butter")
	require.NoError(t, err)
	_, err = CreateSnack(1, "2025-01-07", "protein bar")
	require.NoError(t, err)

	all, err := ListSnacks(1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byDate, err := ListSnacks(1, "2025-01-06")
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "apple with peanut butter", byDate[0].Description)

	require.NoError(t, DeleteSnack(1, snack.ID))
	require.ErrorIs(t, DeleteSnack(1, snack.ID), ErrNotFound)

	all, err = ListSnacks(1, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
