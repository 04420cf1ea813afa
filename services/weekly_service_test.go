package services

import (
	"testing"

	"github.com/davidkorenblit/nutrition-tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFoods() []models.NewFoodItem {
	return []models.NewFoodItem{
		{FoodName: "quinoa", DifficultyLevel: 4},
		{FoodName: "kale", DifficultyLevel: 7, Notes: "bitter"},
	}
}

func TestCreateWeeklyNoteValidation(t *testing.T) {
	_, err := CreateWeeklyNote(1, "2025-01-06", nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = CreateWeeklyNote(1, "2025-01-06", []models.NewFoodItem{{DifficultyLevel: 5}})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = CreateWeeklyNote(1, "2025-01-06", []models.NewFoodItem{{FoodName: "kale", DifficultyLevel: 11}})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCreateWeeklyNoteDuplicateWeek(t *testing.T) {
	useTestDB(t)

	_, err := CreateWeeklyNote(1, "2025-01-06", sampleFoods())
	require.NoError(t, err)

	_, err = CreateWeeklyNote(1, "2025-01-06", sampleFoods())
	require.Error(t, err)
	assert.True(t, IsValidation(err), "duplicate week should be a validation error, got %v", err)

	// Same week for another user is fine.
	_, err = CreateWeeklyNote(2, "2025-01-06", sampleFoods())
	require.NoError(t, err)
}

func TestDeleteWeeklyNoteFreesWeek(t *testing.T) {
	useTestDB(t)

	note, err := CreateWeeklyNote(1, "2025-01-06", sampleFoods())
	require.NoError(t, err)

	require.NoError(t, DeleteWeeklyNote(1, note.ID))
	_, err = GetWeeklyNote(1, note.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// The week slot is reusable after the delete.
	recreated, err := CreateWeeklyNote(1, "2025-01-06", sampleFoods())
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", recreated.WeekStartDate)
}
