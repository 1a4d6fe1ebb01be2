package habits

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/platform/calendar"
	"pet-care-backend/internal/ports/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 30
	analyticsDays      = 14
)

type PetAuthorizer interface {
	Authorize(ctx context.Context, petID, userID string) (pets.Pet, error)
}

type Service struct {
	repo   Repository
	pets   PetAuthorizer
	cache  TrendCache
	events events.Publisher
	log    *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

type Option func(*Service)

func WithTrendCache(c TrendCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLocation fija la zona horaria con la que se calcula "hoy".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, petsSvc PetAuthorizer, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		pets:   petsSvc,
		cache:  nopCache{},
		events: events.Nop(),
		log:    zap.NewNop(),
		loc:    time.UTC,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// accessErrorOr prioriza el error de acceso a la mascota sobre err (p.ej. un body inválido).
func (s *Service) accessErrorOr(ctx context.Context, petID, userID string, err error) error {
	if _, aerr := s.pets.Authorize(ctx, petID, userID); aerr != nil {
		return aerr
	}
	return err
}

// RecordInput llega ya decodificado; los numéricos inválidos vienen como nil.
type RecordInput struct {
	Date            string
	FeedingGrams    *float64
	ExerciseMinutes *float64
	WeightKg        *float64
	CompletedTasks  []string
	Notes           string
}

// Record guarda el check-in del día, reemplazando uno previo de la misma fecha.
func (s *Service) Record(ctx context.Context, petID, userID string, in RecordInput) (Entry, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return Entry{}, err
	}

	date, err := calendar.ParseDate("date", in.Date)
	if err != nil {
		return Entry{}, err
	}

	now := s.now().UTC()
	e := Entry{
		ID:              uuid.NewString(),
		PetID:           petID,
		Date:            date,
		FeedingGrams:    roundedInt(in.FeedingGrams),
		ExerciseMinutes: roundedInt(in.ExerciseMinutes),
		WeightKg:        weightKg(in.WeightKg),
		CompletedTasks:  cleanTasks(in.CompletedTasks),
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	saved, err := s.repo.Upsert(ctx, e)
	if err != nil {
		return Entry{}, err
	}

	if err := s.cache.Invalidate(ctx, petID); err != nil {
		s.log.Warn("trend cache invalidate failed", zap.String("pet_id", petID), zap.Error(err))
	}
	s.publish(ctx, events.Event{
		Subject: events.SubjectHabitRecorded,
		Payload: map[string]string{"petId": petID, "date": saved.Date, "userId": userID},
	})

	return saved, nil
}

// Recent devuelve las últimas entradas. limit <= 0 usa el default; se acota a [1, 30].
func (s *Service) Recent(ctx context.Context, petID, userID string, limit int) ([]Entry, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListRecent(ctx, petID, clampLimit(limit))
}

// Trends devuelve los 7 puntos que terminan hoy (en la zona configurada).
func (s *Service) Trends(ctx context.Context, petID, userID string) (TrendReport, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return TrendReport{}, err
	}
	return s.trend(ctx, petID, s.today())
}

func (s *Service) trend(ctx context.Context, petID, today string) (TrendReport, error) {
	cached, gen, ok, err := s.cache.Get(ctx, petID, today)
	if err != nil {
		s.log.Warn("trend cache read failed", zap.String("pet_id", petID), zap.Error(err))
		// sin generación conocida no se escribe
		return s.buildTrend(ctx, petID, today)
	}
	if ok {
		return cached, nil
	}

	report, err := s.buildTrend(ctx, petID, today)
	if err != nil {
		return TrendReport{}, err
	}
	if err := s.cache.Set(ctx, today, gen, report); err != nil {
		s.log.Warn("trend cache write failed", zap.String("pet_id", petID), zap.Error(err))
	}
	return report, nil
}

func (s *Service) buildTrend(ctx context.Context, petID, today string) (TrendReport, error) {
	entries, err := s.repo.ListRecent(ctx, petID, trendFetch)
	if err != nil {
		return TrendReport{}, err
	}
	return BuildTrend(petID, entries, today), nil
}

// Analytics calcula racha, constancia y compañía sobre los últimos 14 días.
func (s *Service) Analytics(ctx context.Context, petID, userID string) (Analytics, error) {
	if _, err := s.pets.Authorize(ctx, petID, userID); err != nil {
		return Analytics{}, err
	}

	today := s.today()
	entries, err := s.repo.ListRecent(ctx, petID, analyticsDays)
	if err != nil {
		return Analytics{}, err
	}
	report, err := s.trend(ctx, petID, today)
	if err != nil {
		return Analytics{}, err
	}

	return computeAnalytics(petID, entries, report, today), nil
}

func computeAnalytics(petID string, entries []Entry, report TrendReport, today string) Analytics {
	logged := make(map[string]bool, len(entries))
	for _, e := range entries {
		logged[e.Date] = true
	}

	window := calendar.LastDays(today, analyticsDays)
	days := 0
	for _, d := range window {
		if logged[d] {
			days++
		}
	}

	// La racha cuenta hacia atrás desde hoy; si hoy aún no hay registro, desde ayer.
	streak := 0
	i := len(window) - 1
	if i >= 0 && !logged[window[i]] {
		i--
	}
	for ; i >= 0 && logged[window[i]]; i-- {
		streak++
	}

	totalExercise := 0
	for _, p := range report.Points {
		totalExercise += p.ExerciseMinutes
	}
	avgExercise := 0.0
	if len(report.Points) > 0 {
		avgExercise = float64(totalExercise) / float64(len(report.Points))
	}

	a := Analytics{
		PetID:              petID,
		ConsistencyScore:   int(math.Round(100 * float64(days) / analyticsDays)),
		CompanionshipScore: int(math.Round(math.Min(100, avgExercise/60*100))),
		StreakDays:         streak,
	}
	a.Insights = insightsFor(a, avgExercise, logged[today])
	return a
}

func insightsFor(a Analytics, avgExercise float64, loggedToday bool) []string {
	out := make([]string, 0, 3)
	switch {
	case a.StreakDays >= 7:
		out = append(out, fmt.Sprintf("%d-day check-in streak, keep it going", a.StreakDays))
	case a.StreakDays == 0:
		out = append(out, "No recent check-ins, start a new streak today")
	}
	if !loggedToday {
		out = append(out, "Today's check-in is still pending")
	}
	if a.ConsistencyScore < 50 {
		out = append(out, "Fewer than half of the last 14 days were logged, try a daily reminder")
	}
	if avgExercise < 30 {
		out = append(out, fmt.Sprintf("Average exercise is %.0f min/day this week, aim for at least 30", avgExercise))
	} else {
		out = append(out, "Exercise levels look healthy this week")
	}
	return out
}

func (s *Service) today() string {
	return calendar.Day(s.now(), s.loc)
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	e.OccurredAt = s.now().UTC()
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("event publish failed", zap.String("subject", e.Subject), zap.Error(err))
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}

// Topes de las columnas: INT y NUMERIC(5,2).
const (
	maxIntValue = math.MaxInt32
	maxWeightKg = 999.99
)

// roundedInt: nil, negativos, no finitos o fuera de rango => nil; el resto se redondea.
func roundedInt(v *float64) *int {
	f := nonNegative(v)
	if f == nil {
		return nil
	}
	r := math.Round(*f)
	if r > maxIntValue {
		return nil
	}
	n := int(r)
	return &n
}

// weightKg: como nonNegative, pero null si no entra en dos decimales bajo 1000.
func weightKg(v *float64) *float64 {
	f := nonNegative(v)
	if f == nil || math.Round(*f*100) > maxWeightKg*100 {
		return nil
	}
	return f
}

func nonNegative(v *float64) *float64 {
	if v == nil || *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	f := *v
	return &f
}

func cleanTasks(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
