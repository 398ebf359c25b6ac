package user

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/event"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/observability"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/user/repo"
)

var validate = validator.New()

// Repository is the persistence contract of the user directory.
type Repository interface {
	Create(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

var (
	_ Repository = (*userrepo.UserRepo)(nil)
	_ Repository = (*userrepo.MemoryUserRepo)(nil)
)

// NewUser is the input of UserService.Create.
type NewUser struct {
	Username string `validate:"required"`
}

// UserService is the user directory: registration and lookup.
type UserService struct {
	repo           Repository
	events         event.Publisher
	publishTimeout time.Duration
	clock          clockwork.Clock
	logger         *zap.SugaredLogger
}

// Option customises a UserService.
type Option func(*UserService)

// WithPublishTimeout bounds each event publish; non-positive values are ignored.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *UserService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// NewUserService wires a service. A nil publisher disables events.
func NewUserService(r Repository, events event.Publisher, logger *zap.SugaredLogger, opts ...Option) *UserService {
	if events == nil {
		events = event.NopPublisher{}
	}
	s := &UserService{
		repo:           r,
		events:         events,
		publishTimeout: event.DefaultPublishTimeout,
		clock:          clockwork.NewRealClock(),
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a user under the given display name.
func (s *UserService) Create(ctx context.Context, in NewUser) (*entity.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Invalid("username is required")
	}

	u, err := s.repo.Create(ctx, in.Username)
	if err != nil {
		return nil, apperr.Store("create user", err)
	}
	observability.RecordUserCreated()
	s.publish(ctx, u)
	return u, nil
}

// List returns every user in insertion order.
func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Store("list users", err)
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, nil
}

// MaxIDLength matches the width of the users id column.
const MaxIDLength = 32

// FindByID resolves an id. Unknown and malformed ids both yield
// apperr.ErrUserNotFound.
func (s *UserService) FindByID(ctx context.Context, id string) (*entity.User, error) {
	id = strings.TrimSpace(id)
	if !wellFormedID(id) {
		return nil, apperr.ErrUserNotFound
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Store("find user", err)
	}
	return u, nil
}

// wellFormedID reports whether id could have been issued by a store; anything
// else would be rejected by Postgres before the lookup runs.
func wellFormedID(id string) bool {
	return id != "" &&
		len(id) <= MaxIDLength &&
		utf8.ValidString(id) &&
		!strings.ContainsRune(id, 0)
}

func (s *UserService) publish(ctx context.Context, u *entity.User) {
	env, err := event.New(event.TypeUserCreated, u.ID, event.UserCreated{UserID: u.ID, Username: u.Username}, s.clock.Now())
	if err == nil {
		pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
		err = s.events.Publish(pubCtx, env)
		cancel()
	}
	if err != nil {
		observability.RecordPublishFailure(event.TypeUserCreated)
		s.logger.Warnw("publish user.created failed", "user_id", u.ID, "err", err)
	}
}
