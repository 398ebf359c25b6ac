package exercise

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/event"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise/entity"
	exerciserepo "github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise/repo"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/observability"
	userentity "github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/user/entity"
)

var validate = validator.New()

// UserFinder resolves user ids. It returns apperr.ErrUserNotFound for
// unknown ids.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*userentity.User, error)
}

// Repository is the persistence contract of the exercise log.
type Repository interface {
	Create(ctx context.Context, e *entity.Exercise) error
	ListByUser(ctx context.Context, userID string, f entity.LogFilter) ([]entity.Exercise, error)
}

var (
	_ Repository = (*exerciserepo.ExerciseRepo)(nil)
	_ Repository = (*exerciserepo.MemoryExerciseRepo)(nil)
)

// NewExercise is the raw input of Service.Append. Date is optional.
type NewExercise struct {
	Description string
	Duration    string
	Date        string
}

// MaxDuration is the largest duration the log column can hold.
const MaxDuration = math.MaxInt32

type validatedExercise struct {
	Description string `validate:"required"`
	Duration    int    `validate:"gt=0,lte=2147483647"`
}

// LogQuery holds the raw query parameters of Service.Query. All are
// optional; unparseable values are ignored.
type LogQuery struct {
	From  string
	To    string
	Limit string
}

// LogEntryView is returned by Append.
type LogEntryView struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogItem is one entry of a LogView.
type LogItem struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogView is returned by Query. Count is the number of items in Log.
type LogView struct {
	ID       string    `json:"_id"`
	Username string    `json:"username"`
	Count    int       `json:"count"`
	Log      []LogItem `json:"log"`
}

// Service appends to and queries users' exercise logs.
type Service struct {
	repo           Repository
	users          UserFinder
	events         event.Publisher
	publishTimeout time.Duration
	clock          clockwork.Clock
	logger         *zap.SugaredLogger
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for default dates.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithPublisher sets the event publisher.
func WithPublisher(p event.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithPublishTimeout bounds each event publish; non-positive values are ignored.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

func NewService(r Repository, users UserFinder, logger *zap.SugaredLogger, opts ...Option) *Service {
	s := &Service{
		repo:           r,
		users:          users,
		events:         event.NopPublisher{},
		publishTimeout: event.DefaultPublishTimeout,
		clock:          clockwork.NewRealClock(),
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append validates in, checks the user exists and stores a new entry.
func (s *Service) Append(ctx context.Context, userID string, in NewExercise) (*LogEntryView, error) {
	v, err := validateExercise(in)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	day, ok := ParseDay(in.Date)
	if !ok {
		day = Day(s.clock.Now().UTC())
	}

	e := &entity.Exercise{
		UserID:      u.ID,
		Description: v.Description,
		Duration:    v.Duration,
		Date:        day,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, apperr.Store("create exercise", err)
	}
	observability.RecordExerciseLogged()
	s.publish(ctx, e)

	return &LogEntryView{
		ID:          u.ID,
		Username:    u.Username,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        FormatDate(e.Date),
	}, nil
}

// Query returns a user's log narrowed by q.
func (s *Service) Query(ctx context.Context, userID string, q LogQuery) (*LogView, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.ListByUser(ctx, u.ID, parseFilter(q))
	if err != nil {
		return nil, apperr.Store("list exercises", err)
	}

	items := make([]LogItem, 0, len(logs))
	for _, e := range logs {
		items = append(items, LogItem{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        FormatDate(e.Date),
		})
	}
	return &LogView{ID: u.ID, Username: u.Username, Count: len(items), Log: items}, nil
}

func validateExercise(in NewExercise) (validatedExercise, error) {
	v := validatedExercise{Description: strings.TrimSpace(in.Description)}
	if raw := strings.TrimSpace(in.Duration); raw != "" {
		n, err := strconv.Atoi(raw)
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(raw, "-") {
				return v, apperr.Invalid("duration must be a positive number")
			}
			return v, apperr.Invalid("duration must be at most %d", MaxDuration)
		}
		if err != nil {
			return v, apperr.Invalid("duration must be a whole number")
		}
		v.Duration = n
	}
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			switch fieldErrs[0].Field() {
			case "Description":
				return v, apperr.Invalid("description is required")
			case "Duration":
				if fieldErrs[0].Tag() == "lte" {
					return v, apperr.Invalid("duration must be at most %d", MaxDuration)
				}
				return v, apperr.Invalid("duration must be a positive number")
			}
		}
		return v, apperr.Invalid("%v", err)
	}
	return v, nil
}

func parseFilter(q LogQuery) entity.LogFilter {
	var f entity.LogFilter
	if from, ok := ParseDay(q.From); ok {
		f.From = &from
	}
	if to, ok := ParseDay(q.To); ok {
		f.To = &to
	}
	if n, err := strconv.Atoi(strings.TrimSpace(q.Limit)); err == nil && n > 0 {
		f.Limit = n
	}
	return f
}

func (s *Service) publish(ctx context.Context, e *entity.Exercise) {
	payload := event.ExerciseLogged{
		ExerciseID:  e.ID,
		UserID:      e.UserID,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date,
	}
	env, err := event.New(event.TypeExerciseLogged, e.UserID, payload, s.clock.Now())
	if err == nil {
		pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
		err = s.events.Publish(pubCtx, env)
		cancel()
	}
	if err != nil {
		observability.RecordPublishFailure(event.TypeExerciseLogged)
		s.logger.Warnw("publish exercise.logged failed", "exercise_id", e.ID, "user_id", e.UserID, "err", err)
	}
}
