package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/davidkorenblit/nutrition-tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeData feeds canned rows to the scorers. Filtering is the real
// implementation's job; tests hand over exactly the rows in range.
type fakeData struct {
	user  *models.User
	water []models.WaterLog
	notes []models.WeeklyNote
	meals []models.Meal
	rec   *models.RecommendationSet
	err   error
}

func (f *fakeData) User(ctx context.Context, userID uint) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil {
		return nil, ErrNotFound
	}
	return f.user, nil
}

func (f *fakeData) WaterLogs(ctx context.Context, userID uint, from, to time.Time) ([]models.WaterLog, error) {
	return f.water, f.err
}

func (f *fakeData) WeeklyNotes(ctx context.Context, userID uint, startDate, endDate string) ([]models.WeeklyNote, error) {
	return f.notes, f.err
}

func (f *fakeData) MealsWithPlates(ctx context.Context, userID uint, startDate, endDate string) ([]models.Meal, error) {
	return f.meals, f.err
}

func (f *fakeData) LatestRecommendations(ctx context.Context, userID uint) (*models.RecommendationSet, error) {
	return f.rec, f.err
}

func (f *fakeData) Snapshot(ctx context.Context, userID uint, period Period) (ComplianceData, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil {
		return nil, ErrNotFound
	}
	return f, nil
}

type fakeMatcher struct {
	result *MatchResult
	err    error
}

func (m fakeMatcher) MatchRecommendations(ctx context.Context, recommendations, behaviors []string) (*MatchResult, error) {
	return m.result, m.err
}

func testUser() *models.User {
	return &models.User{
		Email:                        "user@example.com",
		DailyWaterGoalML:             2000,
		ComplianceCheckFrequencyDays: 14,
	}
}

func testPeriod(t *testing.T, start, end string) Period {
	t.Helper()
	p, err := parsePeriod(start, end)
	require.NoError(t, err)
	return p
}

func day(t *testing.T, date string, hour int) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	require.NoError(t, err)
	return d.Add(time.Duration(hour) * time.Hour)
}

func noteWithFoods(names ...string) models.WeeklyNote {
	foods := make([]models.NewFoodItem, 0, len(names))
	for _, n := range names {
		foods = append(foods, models.NewFoodItem{FoodName: n, DifficultyLevel: 5})
	}
	return models.WeeklyNote{
		WeekStartDate: "2025-01-01",
		NewFoods:      datatypes.NewJSONType(foods),
	}
}

func TestWaterIntakeScorer(t *testing.T) {
	period := testPeriod(t, "2025-01-01", "2025-01-02")

	t.Run("one of two days met", func(t *testing.T) {
		data := &fakeData{water: []models.WaterLog{
			{AmountML: 1000, LoggedAt: day(t, "2025-01-01", 8)},
			{AmountML: 1200, LoggedAt: day(t, "2025-01-01", 18)},
			{AmountML: 1800, LoggedAt: day(t, "2025-01-02", 9)},
		}}

		score, det, err := WaterIntakeScorer{}.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 50.0, score)

		details := det.(*WaterIntakeDetails)
		assert.Equal(t, 1, details.DaysMetGoal)
		assert.Equal(t, 2, details.TotalDays)
		assert.Equal(t, 2000.0, details.DailyAvgML)
		assert.Equal(t, 50.0, details.PercentageDaysMet)
	})

	t.Run("no logs scores zero", func(t *testing.T) {
		score, det, err := WaterIntakeScorer{}.Score(context.Background(), &fakeData{}, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)

		details := det.(*WaterIntakeDetails)
		assert.Equal(t, 2000, details.GoalML)
		assert.Equal(t, 2, details.TotalDays)
		assert.Equal(t, 0.0, details.DailyAvgML)
	})

	t.Run("all days met", func(t *testing.T) {
		data := &fakeData{water: []models.WaterLog{
			{AmountML: 2500, LoggedAt: day(t, "2025-01-01", 10)},
			{AmountML: 2000, LoggedAt: day(t, "2025-01-02", 10)},
		}}

		score, _, err := WaterIntakeScorer{}.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 100.0, score)
	})

	t.Run("average counts entry days only", func(t *testing.T) {
		// One entry day in a week: avg over 1 day, met share over 7.
		week := testPeriod(t, "2025-01-01", "2025-01-07")
		data := &fakeData{water: []models.WaterLog{
			{AmountML: 2100, LoggedAt: day(t, "2025-01-03", 12)},
		}}

		score, det, err := WaterIntakeScorer{}.Score(context.Background(), data, testUser(), week)
		require.NoError(t, err)
		assert.Equal(t, 14.29, score)
		assert.Equal(t, 2100.0, det.(*WaterIntakeDetails).DailyAvgML)
	})

	t.Run("data error propagates", func(t *testing.T) {
		data := &fakeData{err: errors.New("db down")}
		_, _, err := WaterIntakeScorer{}.Score(context.Background(), data, testUser(), period)
		require.Error(t, err)
	})
}

func TestNewFoodsScorer(t *testing.T) {
	period := testPeriod(t, "2025-01-01", "2025-01-14")

	t.Run("ten points per food", func(t *testing.T) {
		data := &fakeData{notes: []models.WeeklyNote{
			noteWithFoods("quinoa", "kale", "tofu", "lentils"),
		}}

		score, det, err := NewFoodsScorer{}.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 40.0, score)
		assert.Equal(t, 4, det.(*NewFoodsDetails).TotalNewFoods)
	})

	t.Run("saturates at 100", func(t *testing.T) {
		data := &fakeData{notes: []models.WeeklyNote{
			noteWithFoods("a", "b", "c", "d", "e", "f", "g"),
			noteWithFoods("h", "i", "j", "k", "l", "m", "n", "o"),
		}}

		score, det, err := NewFoodsScorer{}.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 100.0, score)
		assert.Equal(t, 15, det.(*NewFoodsDetails).TotalNewFoods)
	})

	t.Run("no notes scores zero", func(t *testing.T) {
		score, det, err := NewFoodsScorer{}.Score(context.Background(), &fakeData{}, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
		assert.Empty(t, det.(*NewFoodsDetails).Foods)
	})
}

func recSet(texts ...string) *models.RecommendationSet {
	items := make([]models.RecommendationItem, 0, len(texts))
	for i, txt := range texts {
		items = append(items, models.RecommendationItem{ID: i + 1, Text: txt})
	}
	return &models.RecommendationSet{
		VisitDate: "2024-12-20",
		Items:     datatypes.NewJSONType(items),
	}
}

func TestRecommendationMatchScorer(t *testing.T) {
	period := testPeriod(t, "2025-01-01", "2025-01-14")

	t.Run("no recommendations scores zero", func(t *testing.T) {
		scorer := RecommendationMatchScorer{Matcher: fakeMatcher{}}
		score, det, err := scorer.Score(context.Background(), &fakeData{}, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
		assert.NotEmpty(t, det.(*RecommendationsMatchDetails).Analysis)
	})

	t.Run("recommendations but no foods is neutral", func(t *testing.T) {
		data := &fakeData{rec: recSet("eat more fish", "reduce sugar")}
		scorer := RecommendationMatchScorer{Matcher: fakeMatcher{}}

		score, det, err := scorer.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 50.0, score)

		details := det.(*RecommendationsMatchDetails)
		assert.Equal(t, 2, details.TotalRecommendations)
		assert.Equal(t, []string{"eat more fish", "reduce sugar"}, details.UnmatchedItems)
	})

	t.Run("matcher result is used", func(t *testing.T) {
		data := &fakeData{
			rec:   recSet("eat more fish", "reduce sugar"),
			notes: []models.WeeklyNote{noteWithFoods("salmon")},
		}
		scorer := RecommendationMatchScorer{Matcher: fakeMatcher{result: &MatchResult{
			Analysis:       "salmon covers the fish recommendation",
			MatchedItems:   []string{"eat more fish"},
			UnmatchedItems: []string{"reduce sugar"},
			Score:          72.456,
		}}}

		score, det, err := scorer.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 72.46, score)

		details := det.(*RecommendationsMatchDetails)
		assert.Equal(t, 1, details.RecommendationsFollowed)
		assert.Equal(t, 2, details.TotalRecommendations)
	})

	t.Run("matcher failure falls back to neutral", func(t *testing.T) {
		data := &fakeData{
			rec:   recSet("eat more fish"),
			notes: []models.WeeklyNote{noteWithFoods("salmon")},
		}
		scorer := RecommendationMatchScorer{Matcher: fakeMatcher{err: errors.New("model timeout")}}

		score, det, err := scorer.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 50.0, score)

		details := det.(*RecommendationsMatchDetails)
		assert.Contains(t, details.Analysis, "semantic analysis unavailable")
		assert.Equal(t, []string{"eat more fish"}, details.UnmatchedItems)
	})
}

func mealWithFreePlate(date string, veg, protein, carbs int) models.Meal {
	return models.Meal{
		Date:     date,
		MealType: "lunch",
		Plates: []models.Plate{
			{
				PlateType:         models.PlateTypeHealthy,
				VegetablesPercent: models.HealthyVegetablesPercent,
				ProteinPercent:    models.HealthyProteinPercent,
				CarbsPercent:      models.HealthyCarbsPercent,
			},
			{
				PlateType:         models.PlateTypeFree,
				VegetablesPercent: veg,
				ProteinPercent:    protein,
				CarbsPercent:      carbs,
			},
		},
	}
}

func TestHealthyPlateRatioScorer(t *testing.T) {
	period := testPeriod(t, "2025-01-01", "2025-01-14")

	t.Run("perfect plate scores 100", func(t *testing.T) {
		data := &fakeData{meals: []models.Meal{mealWithFreePlate("2025-01-02", 50, 30, 20)}}

		score, det, err := HealthyPlateRatioScorer{}.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 100.0, score)
		assert.Equal(t, 1, det.(*HealthyPlatesDetails).TotalReportedMeals)
	})

	t.Run("all carbs plate", func(t *testing.T) {
		// gap = (50 + 30 + 80) / 3 = 53.33..., score = 46.67
		data := &fakeData{meals: []models.Meal{mealWithFreePlate("2025-01-02", 0, 0, 100)}}

		score, _, err := HealthyPlateRatioScorer{}.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 46.67, score)
	})

	t.Run("mean across meals", func(t *testing.T) {
		data := &fakeData{meals: []models.Meal{
			mealWithFreePlate("2025-01-02", 50, 30, 20),
			mealWithFreePlate("2025-01-03", 0, 0, 100),
		}}

		score, det, err := HealthyPlateRatioScorer{}.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 73.33, score)

		details := det.(*HealthyPlatesDetails)
		assert.Equal(t, 2, details.TotalReportedMeals)
		assert.Equal(t, details.RatioPercentage, details.HealthyMeals)
	})

	t.Run("unreported meals are skipped", func(t *testing.T) {
		// A meal without its free plate has not been reported yet.
		data := &fakeData{meals: []models.Meal{
			{Date: "2025-01-02", MealType: "breakfast"},
			{Date: "2025-01-02", MealType: "dinner", Plates: []models.Plate{
				{PlateType: models.PlateTypeHealthy, VegetablesPercent: 50, ProteinPercent: 30, CarbsPercent: 20},
			}},
			mealWithFreePlate("2025-01-03", 40, 30, 30),
		}}

		score, det, err := HealthyPlateRatioScorer{}.Score(context.Background(), data, testUser(), period)
		require.NoError(t, err)
		// gap = (10 + 0 + 10) / 3 = 6.67, score = 93.33
		assert.Equal(t, 93.33, score)
		assert.Equal(t, 1, det.(*HealthyPlatesDetails).TotalReportedMeals)
	})

	t.Run("no meals scores zero", func(t *testing.T) {
		score, det, err := HealthyPlateRatioScorer{}.Score(context.Background(), &fakeData{}, testUser(), period)
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
		assert.Equal(t, 0, det.(*HealthyPlatesDetails).TotalReportedMeals)
	})
}

func TestPeriodTotalDays(t *testing.T) {
	assert.Equal(t, 2, testPeriod(t, "2025-01-01", "2025-01-02").TotalDays())
	assert.Equal(t, 14, testPeriod(t, "2025-01-01", "2025-01-14").TotalDays())
	assert.Equal(t, 91, Period{
		Start: day(t, "2025-01-01", 0),
		End:   day(t, "2025-04-01", 0),
	}.TotalDays())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 46.67, round2(140.0/3))
	assert.Equal(t, 50.0, round2(50))
	assert.Equal(t, 33.33, round2(100.0/3))
}
