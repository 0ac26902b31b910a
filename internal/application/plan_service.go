package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/overlap-planner/internal/planner"
	"github.com/example/overlap-planner/internal/report"
	"github.com/example/overlap-planner/internal/roster"
	"github.com/example/overlap-planner/internal/timeutil"
)

// PlanService runs evaluation passes over roster snapshots. Computation is
// pure; the service only resolves stored rosters, renders results, and keeps
// a short-lived result cache.
type PlanService struct {
	rosters RosterRepository
	cache   *planCache
	now     func() time.Time
	logger  *slog.Logger
}

// NewPlanService constructs a plan service with the provided dependencies.
func NewPlanService(rosters RosterRepository, now func() time.Time) *PlanService {
	return NewPlanServiceWithLogger(rosters, now, nil)
}

// NewPlanServiceWithLogger constructs a plan service with a specified logger.
func NewPlanServiceWithLogger(rosters RosterRepository, now func() time.Time, logger *slog.Logger) *PlanService {
	if now == nil {
		now = time.Now
	}
	svc := &PlanService{
		rosters: rosters,
		now:     now,
		logger:  defaultLogger(logger),
	}
	svc.cache = newPlanCache(30*time.Second, 128, now)
	return svc
}

// Cache exposes the result cache so roster mutations can invalidate it.
func (s *PlanService) Cache() *planCache {
	if s == nil {
		return nil
	}
	return s.cache
}

func (s *PlanService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlanService", operation, attrs...)
}

// ComputePlan resolves the people set, runs the requested evaluation, and
// renders the outcome for the caller's viewer options.
func (s *PlanService) ComputePlan(ctx context.Context, params ComputePlanParams) (result PlanResult, err error) {
	if s == nil {
		err = fmt.Errorf("PlanService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ComputePlan",
		"principal", params.Principal.Subject,
		"mode", string(params.Mode),
		"roster_id", params.RosterID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to compute plan", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "plan computed", "empty", result.Empty)
	}()

	if !params.Principal.Authenticated {
		err = ErrUnauthorized
		return
	}

	if params.Mode == "" {
		params.Mode = PlanModeBest
	}
	switch params.Mode {
	case PlanModeBest, PlanModeWorst, PlanModeRanked, PlanModeHourly:
	default:
		vErr := &ValidationError{}
		vErr.add("mode", fmt.Sprintf("unknown mode %q", params.Mode))
		err = vErr
		return
	}

	baseDay, dateLabel, dateErr := s.resolveDate(params.Date)
	if dateErr != nil {
		vErr := &ValidationError{}
		vErr.add("date", "date must be in YYYY-MM-DD form")
		err = vErr
		return
	}
	params.Date = dateLabel

	people, constraints, resolveErr := s.resolvePeople(ctx, params)
	if resolveErr != nil {
		err = resolveErr
		return
	}
	if verr := validatePeople(people); verr != nil {
		err = verr
		return
	}

	cacheKey := buildPlanCacheKey(params)
	if cached, ok := s.cache.Get(cacheKey); ok {
		result = cached
		return
	}

	result = s.compute(people, constraints, baseDay, params)
	s.cache.Store(cacheKey, result)
	return
}

func (s *PlanService) resolveDate(value string) (time.Time, string, error) {
	if value == "" {
		now := s.now().UTC()
		base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return base, base.Format("2006-01-02"), nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, "", err
	}
	base := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return base, value, nil
}

func (s *PlanService) resolvePeople(ctx context.Context, params ComputePlanParams) ([]roster.Person, roster.ConstraintMap, error) {
	if len(params.People) > 0 {
		return params.People, params.Constraints, nil
	}
	if params.RosterID == "" {
		vErr := &ValidationError{}
		vErr.add("people", "either a people set or a roster id is required")
		return nil, nil, vErr
	}
	if s.rosters == nil {
		return nil, nil, fmt.Errorf("roster repository not configured")
	}

	snapshot, err := s.rosters.GetRoster(ctx, params.RosterID)
	if err != nil {
		return nil, nil, err
	}

	constraints := snapshot.Constraints
	if len(params.Constraints) > 0 {
		// Request constraints override the stored ones wholesale.
		constraints = params.Constraints
	}
	return snapshot.People, constraints, nil
}

func (s *PlanService) compute(people []roster.Person, constraints roster.ConstraintMap, baseDay time.Time, params ComputePlanParams) PlanResult {
	viewer := report.Viewer{
		UTCOffset:  params.Viewer.UTCOffset,
		DST:        params.Viewer.DST,
		LocalTimes: params.Viewer.LocalTimes,
	}

	result := PlanResult{Mode: params.Mode, Date: params.Date}

	mode := planner.ModeBest
	if params.Mode == PlanModeWorst {
		mode = planner.ModeWorst
	}
	request := planner.Request{
		People:      people,
		Constraints: constraints,
		BaseDay:     baseDay,
		Mode:        mode,
	}

	switch params.Mode {
	case PlanModeBest, PlanModeWorst:
		found := planner.FindContiguousRange(request)
		rendered := report.RenderWindow(found.Window, viewer)
		result.Window = &rendered
		result.Skipped = found.Skipped
		result.Empty = found.Range.IsEmpty()

		if !found.Range.IsEmpty() {
			result.Statuses = report.PersonStatuses(people, baseDay, found.Range.Start, mode == planner.ModeWorst)
		}
		if params.Mode == PlanModeBest && found.Count == 0 {
			if fallback, ok := report.PinnedOnlineFallback(people, constraints, baseDay); ok {
				renderedFallback := report.RenderWindow(fallback, viewer)
				result.Fallback = &renderedFallback
			}
		}

	case PlanModeRanked:
		ranked := planner.OrderedRanges(request)
		result.Skipped = ranked.Skipped
		result.Empty = len(ranked.Windows) == 0
		result.Windows = make([]report.RenderedWindow, 0, len(ranked.Windows))
		for _, window := range ranked.Windows {
			result.Windows = append(result.Windows, report.RenderWindow(window, viewer))
		}
		if len(ranked.Windows) > 0 {
			result.Statuses = report.PersonStatuses(people, baseDay, ranked.Windows[0].Range.Start, false)
		}

	case PlanModeHourly:
		slots := planner.HourlySlots(request)
		result.Empty = len(slots) == 0
		result.Slots = make([]HourlySlot, 0, len(slots))
		for _, slot := range slots {
			result.Slots = append(result.Slots, HourlySlot{
				Start:       timeutil.FormatClock(slot.StartMinute),
				StartMinute: slot.StartMinute,
				Count:       slot.Count,
			})
		}
	}

	return result
}
