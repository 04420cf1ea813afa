package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/davidkorenblit/nutrition-tracker/models"
)

// Period is an inclusive [start, end] calendar-date range. Both bounds are
// midnight UTC; the date strings drive the lexical range filters.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) StartDate() string { return p.Start.Format("2006-01-02") }
func (p Period) EndDate() string   { return p.End.Format("2006-01-02") }

// TotalDays counts calendar days in the period, both ends included.
func (p Period) TotalDays() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Scorer is one independent compliance dimension. Scorers read historical
// data through the facade and never write; absence of data is a scoreable
// state, not an error, so a Scorer only fails on infrastructure errors.
type Scorer interface {
	Score(ctx context.Context, data ComplianceData, user *models.User, period Period) (float64, any, error)
}

// ---------- Water intake ----------

type WaterIntakeDetails struct {
	DailyAvgML        float64 `json:"daily_avg_ml"`
	GoalML            int     `json:"goal_ml"`
	DaysMetGoal       int     `json:"days_met_goal"`
	TotalDays         int     `json:"total_days"`
	PercentageDaysMet float64 `json:"percentage_days_met"`
}

// WaterIntakeScorer scores the share of period days on which the summed
// intake reached the user's daily goal. Days without entries count in the
// denominator but not in the daily average.
type WaterIntakeScorer struct{}

func (WaterIntakeScorer) Score(ctx context.Context, data ComplianceData, user *models.User, period Period) (float64, any, error) {
	from := dayStartUTC(period.Start)
	to := dayEndUTC(period.End)

	logs, err := data.WaterLogs(ctx, user.ID, from, to)
	if err != nil {
		return 0, nil, err
	}

	totalDays := period.TotalDays()
	details := &WaterIntakeDetails{
		GoalML:    user.DailyWaterGoalML,
		TotalDays: totalDays,
	}
	if len(logs) == 0 {
		return 0, details, nil
	}

	perDay := map[string]float64{}
	for _, l := range logs {
		perDay[l.LoggedAt.UTC().Format("2006-01-02")] += l.AmountML
	}

	var sum float64
	met := 0
	for _, total := range perDay {
		sum += total
		if total >= float64(user.DailyWaterGoalML) {
			met++
		}
	}

	score := round2(100 * float64(met) / float64(totalDays))
	details.DailyAvgML = round2(sum / float64(len(perDay)))
	details.DaysMetGoal = met
	details.PercentageDaysMet = score
	return score, details, nil
}

// ---------- New foods ----------

type NewFoodsDetails struct {
	TotalNewFoods int                  `json:"total_new_foods"`
	Foods         []models.NewFoodItem `json:"foods"`
}

// NewFoodsScorer rewards trying new foods: 10 points per item logged in
// weekly notes during the period, saturating at 100.
type NewFoodsScorer struct{}

func (NewFoodsScorer) Score(ctx context.Context, data ComplianceData, user *models.User, period Period) (float64, any, error) {
	foods, err := newFoodsInPeriod(ctx, data, user.ID, period)
	if err != nil {
		return 0, nil, err
	}

	score := math.Min(float64(len(foods))*10, 100)
	return score, &NewFoodsDetails{
		TotalNewFoods: len(foods),
		Foods:         foods,
	}, nil
}

func newFoodsInPeriod(ctx context.Context, data ComplianceData, userID uint, period Period) ([]models.NewFoodItem, error) {
	notes, err := data.WeeklyNotes(ctx, userID, period.StartDate(), period.EndDate())
	if err != nil {
		return nil, err
	}

	foods := []models.NewFoodItem{}
	for _, n := range notes {
		foods = append(foods, n.NewFoods.Data()...)
	}
	return foods, nil
}

// ---------- Recommendations match ----------

type RecommendationsMatchDetails struct {
	Analysis                string   `json:"analysis"`
	MatchedItems            []string `json:"matched_items"`
	UnmatchedItems          []string `json:"unmatched_items"`
	RecommendationsFollowed int      `json:"recommendations_followed"`
	TotalRecommendations    int      `json:"total_recommendations"`
}

// RecommendationMatchScorer compares the latest nutritionist
// recommendations against the foods tried in the period via the semantic
// matcher. Matcher failures are absorbed into a neutral 50 so the overall
// check never blocks on the external service.
type RecommendationMatchScorer struct {
	Matcher        SemanticMatcher
	MatcherTimeout time.Duration
}

const (
	neutralMatchScore     = 50.0
	defaultMatcherTimeout = 20 * time.Second
)

func (s RecommendationMatchScorer) Score(ctx context.Context, data ComplianceData, user *models.User, period Period) (float64, any, error) {
	rec, err := data.LatestRecommendations(ctx, user.ID)
	if err != nil {
		return 0, nil, err
	}

	if rec == nil || len(rec.Items.Data()) == 0 {
		// No recommendations on file is a valid, scoreable state.
		return 0, &RecommendationsMatchDetails{
			Analysis:       "no nutritionist recommendations on file",
			MatchedItems:   []string{},
			UnmatchedItems: []string{},
		}, nil
	}

	items := rec.Items.Data()
	recTexts := make([]string, 0, len(items))
	for _, it := range items {
		recTexts = append(recTexts, it.Text)
	}

	foods, err := newFoodsInPeriod(ctx, data, user.ID, period)
	if err != nil {
		return 0, nil, err
	}
	if len(foods) == 0 {
		// Nothing to evaluate against: neutral score.
		return neutralMatchScore, &RecommendationsMatchDetails{
			Analysis:             "no new foods logged during the period; nothing to evaluate",
			MatchedItems:         []string{},
			UnmatchedItems:       recTexts,
			TotalRecommendations: len(recTexts),
		}, nil
	}

	behaviorTexts := make([]string, 0, len(foods))
	for _, f := range foods {
		behaviorTexts = append(behaviorTexts, f.FoodName)
	}

	timeout := s.MatcherTimeout
	if timeout <= 0 {
		timeout = defaultMatcherTimeout
	}
	mctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.Matcher.MatchRecommendations(mctx, recTexts, behaviorTexts)
	if err != nil {
		return neutralMatchScore, &RecommendationsMatchDetails{
			Analysis:             fmt.Sprintf("semantic analysis unavailable: %v", err),
			MatchedItems:         []string{},
			UnmatchedItems:       recTexts,
			TotalRecommendations: len(recTexts),
		}, nil
	}

	return round2(result.Score), &RecommendationsMatchDetails{
		Analysis:                result.Analysis,
		MatchedItems:            result.MatchedItems,
		UnmatchedItems:          result.UnmatchedItems,
		RecommendationsFollowed: len(result.MatchedItems),
		TotalRecommendations:    len(recTexts),
	}, nil
}

// ---------- Healthy plates ----------

type HealthyPlatesDetails struct {
	TotalReportedMeals int `json:"total_reported_meals"`
	// HealthyMeals is the mean meal score, not a meal count. The field
	// keeps its historical name for response compatibility;
	// RatioPercentage carries the same value.
	HealthyMeals    float64 `json:"healthy_meals"`
	RatioPercentage float64 `json:"ratio_percentage"`
}

// HealthyPlateRatioScorer measures how close each free plate comes to the
// 50/30/20 healthy template. Meals without exactly two plates are skipped,
// not penalized.
type HealthyPlateRatioScorer struct{}

func (HealthyPlateRatioScorer) Score(ctx context.Context, data ComplianceData, user *models.User, period Period) (float64, any, error) {
	meals, err := data.MealsWithPlates(ctx, user.ID, period.StartDate(), period.EndDate())
	if err != nil {
		return 0, nil, err
	}

	var sum float64
	qualifying := 0
	for _, meal := range meals {
		if len(meal.Plates) != 2 {
			continue
		}
		var free *models.Plate
		for i := range meal.Plates {
			if meal.Plates[i].PlateType == models.PlateTypeFree {
				free = &meal.Plates[i]
				break
			}
		}
		if free == nil {
			continue
		}

		gap := (math.Abs(float64(models.HealthyVegetablesPercent-free.VegetablesPercent)) +
			math.Abs(float64(models.HealthyProteinPercent-free.ProteinPercent)) +
			math.Abs(float64(models.HealthyCarbsPercent-free.CarbsPercent))) / 3
		sum += math.Max(0, 100-gap)
		qualifying++
	}

	details := &HealthyPlatesDetails{TotalReportedMeals: qualifying}
	if qualifying == 0 {
		return 0, details, nil
	}

	score := round2(sum / float64(qualifying))
	details.HealthyMeals = score
	details.RatioPercentage = score
	return score, details, nil
}

// ---------- helpers ----------

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func dayStartUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayEndUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
