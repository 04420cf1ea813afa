package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/davidkorenblit/nutrition-tracker/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const maxPeriodDays = 90

// Caller-facing ceilings on history queries.
const (
	maxHistoryLimit = 50
	maxSummaryLimit = 20
)

// ComplianceService runs compliance checks and answers report queries.
// One check = validate period, run the four scorers, persist one immutable
// report. All collaborators are injected; nothing is looked up ambiently.
type ComplianceService struct {
	data  ComplianceData
	store ComplianceStore
	hub   *RealtimeHub

	waterScorer  Scorer
	foodsScorer  Scorer
	matchScorer  Scorer
	platesScorer Scorer
}

func NewComplianceService(data ComplianceData, store ComplianceStore, matcher SemanticMatcher, hub *RealtimeHub) *ComplianceService {
	return &ComplianceService{
		data:         data,
		store:        store,
		hub:          hub,
		waterScorer:  WaterIntakeScorer{},
		foodsScorer:  NewFoodsScorer{},
		matchScorer:  RecommendationMatchScorer{Matcher: matcher},
		platesScorer: HealthyPlateRatioScorer{},
	}
}

// RunCheck evaluates one [periodStart, periodEnd] range for the user and
// persists the report. Dates are YYYY-MM-DD strings.
func (s *ComplianceService) RunCheck(ctx context.Context, userID uint, periodStart, periodEnd string) (*models.ComplianceCheck, error) {
	period, err := parsePeriod(periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	// Fail fast on duplicates; the unique index is the real guard under
	// concurrent identical requests.
	exists, err := s.store.Exists(ctx, userID, period.StartDate(), period.EndDate())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCheckExists
	}

	// One frozen view for the whole check: all four scores describe the
	// same state of the data.
	snap, err := s.data.Snapshot(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	user, err := snap.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The four scorers read disjoint historical data, so they run in
	// parallel. None of them fails on empty data; an error here is
	// infrastructure trouble and aborts the whole check.
	scorers := []Scorer{s.waterScorer, s.foodsScorer, s.matchScorer, s.platesScorer}
	scores := make([]float64, len(scorers))
	details := make([]any, len(scorers))

	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range scorers {
		g.Go(func() error {
			score, det, err := sc.Score(gctx, snap, user, period)
			if err != nil {
				return err
			}
			scores[i] = score
			details[i] = det
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overall := round2((scores[0] + scores[1] + scores[2] + scores[3]) / 4)

	check := &models.ComplianceCheck{
		UserID:      userID,
		CheckDate:   time.Now().UTC(),
		PeriodStart: period.StartDate(),
		PeriodEnd:   period.EndDate(),

		WaterIntakeScore:   &scores[0],
		WaterIntakeDetails: mustJSON(details[0]),

		NewFoodsScore:   &scores[1],
		NewFoodsDetails: mustJSON(details[1]),

		RecommendationsMatchScore:   &scores[2],
		RecommendationsMatchDetails: mustJSON(details[2]),

		HealthyPlatesRatioScore: &scores[3],
		HealthyPlatesDetails:    mustJSON(details[3]),

		OverallScore: &overall,
	}

	if err := s.store.Create(ctx, check); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(userID, map[string]any{
			"kind":  "compliance.check_completed",
			"check": check,
		})
	}
	return check, nil
}

// Latest returns the most recent report by check date.
func (s *ComplianceService) Latest(ctx context.Context, userID uint) (*models.ComplianceCheck, error) {
	return s.store.Latest(ctx, userID)
}

// Get returns one report after verifying ownership.
func (s *ComplianceService) Get(ctx context.Context, userID, checkID uint) (*models.ComplianceCheck, error) {
	return s.store.Get(ctx, userID, checkID)
}

// History returns reports newest first, bounded by limit (max 50).
func (s *ComplianceService) History(ctx context.Context, userID uint, limit int) ([]models.ComplianceCheck, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxHistoryLimit {
		return nil, NewValidationError(fmt.Sprintf("limit must be at most %d", maxHistoryLimit))
	}
	return s.store.History(ctx, userID, limit)
}

// ScoreSummary is the score-only projection of a report.
type ScoreSummary struct {
	PeriodStart               string   `json:"period_start"`
	PeriodEnd                 string   `json:"period_end"`
	WaterIntakeScore          *float64 `json:"water_intake_score"`
	NewFoodsScore             *float64 `json:"new_foods_score"`
	RecommendationsMatchScore *float64 `json:"recommendations_match_score"`
	HealthyPlatesRatioScore   *float64 `json:"healthy_plates_ratio_score"`
	OverallScore              *float64 `json:"overall_score"`
}

// Summaries returns recent reports stripped of detail payloads (max 20).
func (s *ComplianceService) Summaries(ctx context.Context, userID uint, limit int) ([]ScoreSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxSummaryLimit {
		return nil, NewValidationError(fmt.Sprintf("limit must be at most %d", maxSummaryLimit))
	}

	checks, err := s.store.History(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]ScoreSummary, 0, len(checks))
	for _, c := range checks {
		summaries = append(summaries, ScoreSummary{
			PeriodStart:               c.PeriodStart,
			PeriodEnd:                 c.PeriodEnd,
			WaterIntakeScore:          c.WaterIntakeScore,
			NewFoodsScore:             c.NewFoodsScore,
			RecommendationsMatchScore: c.RecommendationsMatchScore,
			HealthyPlatesRatioScore:   c.HealthyPlatesRatioScore,
			OverallScore:              c.OverallScore,
		})
	}
	return summaries, nil
}

// DueStatus answers whether the next periodic check should run.
type DueStatus struct {
	Due                bool `json:"due"`
	DaysSinceLastCheck *int `json:"days_since_last_check"`
	FrequencyDays      int  `json:"frequency_days"`
	DaysRemaining      *int `json:"days_remaining"`
}

// IsDue compares days since the last check against the user's configured
// frequency. With no prior check the next one is always due.
func (s *ComplianceService) IsDue(ctx context.Context, userID uint) (*DueStatus, error) {
	user, err := s.data.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &DueStatus{FrequencyDays: user.ComplianceCheckFrequencyDays}

	latest, err := s.store.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			status.Due = true
			return status, nil
		}
		return nil, err
	}

	daysSince := int(time.Since(latest.CheckDate).Hours() / 24)
	remaining := user.ComplianceCheckFrequencyDays - daysSince
	if remaining < 0 {
		remaining = 0
	}

	status.DaysSinceLastCheck = &daysSince
	status.DaysRemaining = &remaining
	status.Due = daysSince >= user.ComplianceCheckFrequencyDays
	return status, nil
}

// Delete removes one report after verifying ownership.
func (s *ComplianceService) Delete(ctx context.Context, userID, checkID uint) error {
	return s.store.Delete(ctx, userID, checkID)
}

func parsePeriod(periodStart, periodEnd string) (Period, error) {
	start, err := time.ParseInLocation("2006-01-02", periodStart, time.UTC)
	if err != nil {
		return Period{}, NewValidationError("period_start must be a YYYY-MM-DD date")
	}
	end, err := time.ParseInLocation("2006-01-02", periodEnd, time.UTC)
	if err != nil {
		return Period{}, NewValidationError("period_end must be a YYYY-MM-DD date")
	}
	if !end.After(start) {
		return Period{}, NewValidationError("period_end must be after period_start")
	}
	if end.Sub(start) > maxPeriodDays*24*time.Hour {
		return Period{}, NewValidationError(fmt.Sprintf("period cannot exceed %d days", maxPeriodDays))
	}
	return Period{Start: start, End: end}, nil
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		// Detail structs are plain data; marshaling them cannot fail.
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(b)
}
