package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/davidkorenblit/nutrition-tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeStore struct {
	existing  bool
	created   *models.ComplianceCheck
	latest    *models.ComplianceCheck
	checks    []models.ComplianceCheck
	lastLimit int
	deleted   []uint
}

func (f *fakeStore) Create(ctx context.Context, check *models.ComplianceCheck) error {
	f.created = check
	return nil
}

func (f *fakeStore) Exists(ctx context.Context, userID uint, periodStart, periodEnd string) (bool, error) {
	return f.existing, nil
}

func (f *fakeStore) Latest(ctx context.Context, userID uint) (*models.ComplianceCheck, error) {
	if f.latest == nil {
		return nil, ErrNotFound
	}
	return f.latest, nil
}

func (f *fakeStore) History(ctx context.Context, userID uint, limit int) ([]models.ComplianceCheck, error) {
	f.lastLimit = limit
	if limit < len(f.checks) {
		return f.checks[:limit], nil
	}
	return f.checks, nil
}

func (f *fakeStore) Get(ctx context.Context, userID, checkID uint) (*models.ComplianceCheck, error) {
	if f.latest == nil {
		return nil, ErrNotFound
	}
	return f.latest, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, checkID uint) error {
	f.deleted = append(f.deleted, checkID)
	return nil
}

func newTestService(data *fakeData, store *fakeStore, matcher SemanticMatcher) *ComplianceService {
	if matcher == nil {
		matcher = fakeMatcher{}
	}
	return NewComplianceService(data, store, matcher, nil)
}

func TestRunCheckValidation(t *testing.T) {
	svc := newTestService(&fakeData{user: testUser()}, &fakeStore{}, nil)
	ctx := context.Background()

	cases := []struct {
		name       string
		start, end string
	}{
		{"end equals start", "2025-01-01", "2025-01-01"},
		{"end before start", "2025-01-10", "2025-01-01"},
		{"over ninety days", "2025-01-01", "2025-06-01"},
		{"bad start format", "01/01/2025", "2025-01-14"},
		{"bad end format", "2025-01-01", "Jan 14"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RunCheck(ctx, 1, tc.start, tc.end)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestRunCheckDuplicatePeriod(t *testing.T) {
	svc := newTestService(&fakeData{user: testUser()}, &fakeStore{existing: true}, nil)

	_, err := svc.RunCheck(context.Background(), 1, "2025-01-01", "2025-01-14")
	require.ErrorIs(t, err, ErrCheckExists)
}

func TestRunCheckUnknownUser(t *testing.T) {
	svc := newTestService(&fakeData{}, &fakeStore{}, nil)

	_, err := svc.RunCheck(context.Background(), 42, "2025-01-01", "2025-01-14")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRunCheckEmptyData(t *testing.T) {
	// A brand-new user with no history still gets a full report.
	store := &fakeStore{}
	svc := newTestService(&fakeData{user: testUser()}, store, nil)

	check, err := svc.RunCheck(context.Background(), 1, "2025-01-01", "2025-01-14")
	require.NoError(t, err)

	assert.Equal(t, 0.0, *check.WaterIntakeScore)
	assert.Equal(t, 0.0, *check.NewFoodsScore)
	assert.Equal(t, 0.0, *check.RecommendationsMatchScore)
	assert.Equal(t, 0.0, *check.HealthyPlatesRatioScore)
	assert.Equal(t, 0.0, *check.OverallScore)
	assert.Same(t, check, store.created)
}

func TestRunCheckAggregates(t *testing.T) {
	data := &fakeData{
		user: testUser(),
		water: []models.WaterLog{
			{AmountML: 2200, LoggedAt: day(t, "2025-01-01", 9)},
			{AmountML: 1800, LoggedAt: day(t, "2025-01-02", 9)},
		},
		notes: []models.WeeklyNote{noteWithFoods("quinoa", "kale", "tofu", "lentils")},
		meals: []models.Meal{mealWithFreePlate("2025-01-01", 50, 30, 20)},
		rec:   recSet("try whole grains"),
	}
	matcher := fakeMatcher{result: &MatchResult{
		Analysis:     "quinoa covers whole grains",
		MatchedItems: []string{"try whole grains"},
		Score:        80,
	}}
	store := &fakeStore{}
	svc := newTestService(data, store, matcher)

	check, err := svc.RunCheck(context.Background(), 1, "2025-01-01", "2025-01-02")
	require.NoError(t, err)

	assert.Equal(t, 50.0, *check.WaterIntakeScore)
	assert.Equal(t, 40.0, *check.NewFoodsScore)
	assert.Equal(t, 80.0, *check.RecommendationsMatchScore)
	assert.Equal(t, 100.0, *check.HealthyPlatesRatioScore)
	assert.Equal(t, 67.5, *check.OverallScore)

	assert.Equal(t, "2025-01-01", check.PeriodStart)
	assert.Equal(t, "2025-01-02", check.PeriodEnd)
	assert.WithinDuration(t, time.Now().UTC(), check.CheckDate, time.Minute)

	var details WaterIntakeDetails
	require.NoError(t, json.Unmarshal(check.WaterIntakeDetails, &details))
	assert.Equal(t, 1, details.DaysMetGoal)
	assert.Equal(t, 2, details.TotalDays)
}

// frozenData hands out a fixed snapshot regardless of what the live
// facade holds, mimicking writes landing after the snapshot was taken.
type frozenData struct {
	fakeData
	snap ComplianceData
}

func (f *frozenData) Snapshot(ctx context.Context, userID uint, period Period) (ComplianceData, error) {
	return f.snap, nil
}

func TestRunCheckScoresAgainstSnapshot(t *testing.T) {
	snap := &fakeData{
		user: testUser(),
		water: []models.WaterLog{
			{AmountML: 2500, LoggedAt: day(t, "2025-01-01", 9)},
			{AmountML: 2500, LoggedAt: day(t, "2025-01-02", 9)},
		},
	}
	// The live facade is empty; only the snapshot has rows.
	data := &frozenData{snap: snap}
	svc := NewComplianceService(data, &fakeStore{}, fakeMatcher{}, nil)

	check, err := svc.RunCheck(context.Background(), 1, "2025-01-01", "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, 100.0, *check.WaterIntakeScore)
}

func TestHistoryLimits(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeData{user: testUser()}, store, nil)
	ctx := context.Background()

	_, err := svc.History(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, store.lastLimit)

	_, err = svc.History(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, store.lastLimit)

	_, err = svc.History(ctx, 1, 51)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSummaries(t *testing.T) {
	score := 75.0
	store := &fakeStore{checks: []models.ComplianceCheck{{
		PeriodStart:        "2025-01-01",
		PeriodEnd:          "2025-01-14",
		OverallScore:       &score,
		WaterIntakeDetails: datatypes.JSON([]byte(`{"goal_ml":2000}`)),
	}}}
	svc := newTestService(&fakeData{user: testUser()}, store, nil)

	summaries, err := svc.Summaries(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "2025-01-01", summaries[0].PeriodStart)
	assert.Equal(t, 75.0, *summaries[0].OverallScore)

	_, err = svc.Summaries(context.Background(), 1, 21)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestIsDue(t *testing.T) {
	ctx := context.Background()

	t.Run("no prior check", func(t *testing.T) {
		svc := newTestService(&fakeData{user: testUser()}, &fakeStore{}, nil)

		status, err := svc.IsDue(ctx, 1)
		require.NoError(t, err)
		assert.True(t, status.Due)
		assert.Equal(t, 14, status.FrequencyDays)
		assert.Nil(t, status.DaysSinceLastCheck)
	})

	t.Run("overdue", func(t *testing.T) {
		store := &fakeStore{latest: &models.ComplianceCheck{
			CheckDate: time.Now().UTC().AddDate(0, 0, -15),
		}}
		svc := newTestService(&fakeData{user: testUser()}, store, nil)

		status, err := svc.IsDue(ctx, 1)
		require.NoError(t, err)
		assert.True(t, status.Due)
		assert.Equal(t, 15, *status.DaysSinceLastCheck)
		assert.Equal(t, 0, *status.DaysRemaining)
	})

	t.Run("not yet due", func(t *testing.T) {
		store := &fakeStore{latest: &models.ComplianceCheck{
			CheckDate: time.Now().UTC().AddDate(0, 0, -5),
		}}
		svc := newTestService(&fakeData{user: testUser()}, store, nil)

		status, err := svc.IsDue(ctx, 1)
		require.NoError(t, err)
		assert.False(t, status.Due)
		assert.Equal(t, 5, *status.DaysSinceLastCheck)
		assert.Equal(t, 9, *status.DaysRemaining)
	})
}

func TestDeleteCheck(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeData{user: testUser()}, store, nil)

	require.NoError(t, svc.Delete(context.Background(), 1, 7))
	assert.Equal(t, []uint{7}, store.deleted)
}
