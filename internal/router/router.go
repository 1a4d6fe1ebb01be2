package router

import (
	"database/sql"
	"net/http"
	"time"

	_ "pet-care-backend/docs"
	"pet-care-backend/internal/adapters/auth/jwtauth"
	mem "pet-care-backend/internal/adapters/storage/memory"
	pg "pet-care-backend/internal/adapters/storage/postgres"
	"pet-care-backend/internal/domain/community"
	"pet-care-backend/internal/domain/habits"
	"pet-care-backend/internal/domain/health"
	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/domain/reminders"
	"pet-care-backend/internal/domain/users"
	"pet-care-backend/internal/middleware"
	"pet-care-backend/internal/platform/logger"
	"pet-care-backend/internal/ports/auth"
	"pet-care-backend/internal/ports/events"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev, header X-Debug-User-ID)
	Tokens       auth.TokenIssuer  // nil => el verifier si también emite, o uno efímero

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger     *zap.Logger
	Publisher  events.Publisher  // nil => eventos descartados
	TrendCache habits.TrendCache // nil => sin cache
	Location   *time.Location    // zona para "hoy"; nil => UTC
	Now        func() time.Time  // reloj de hábitos; nil => time.Now
}

// Services expone los servicios armados para quien los necesite fuera de HTTP
// (el scheduler de recordatorios).
type Services struct {
	Users     *users.Service
	Pets      *pets.Service
	Health    *health.Service
	Habits    *habits.Service
	Reminders *reminders.Service
	Community *community.Service
}

func NewRouter(opts Options) http.Handler {
	h, _ := Build(opts)
	return h
}

// Build arma repos, servicios y rutas.
func Build(opts Options) (http.Handler, Services) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	svcs := NewServices(opts, log)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger.Named(log, "http")))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	users.RegisterRoutes(r, svcs.Users)
	pets.RegisterRoutes(r, svcs.Pets)
	health.RegisterRoutes(r, svcs.Health)
	habits.RegisterRoutes(r, svcs.Habits)
	reminders.RegisterRoutes(r, svcs.Reminders)
	community.RegisterRoutes(r, svcs.Community)

	return r, svcs
}

func NewServices(opts Options, log *zap.Logger) Services {
	var (
		userRepo      users.Repository
		petRepo       pets.Repository
		healthRepo    health.Repository
		habitRepo     habits.Repository
		reminderRepo  reminders.Repository
		communityRepo community.Repository
	)

	if db := opts.DB; db != nil {
		userRepo = pg.NewUsersRepo(db)
		petRepo = pg.NewPetsRepo(db)
		healthRepo = pg.NewHealthRepo(db)
		habitRepo = pg.NewHabitsRepo(db)
		reminderRepo = pg.NewRemindersRepo(db)
		communityRepo = pg.NewCommunityRepo(db)
	} else {
		userRepo = mem.NewUserRepo()
		petRepo = mem.NewPetRepo()
		healthRepo = mem.NewHealthRepo()
		habitRepo = mem.NewHabitRepo()
		reminderRepo = mem.NewReminderRepo()
		communityRepo = mem.NewCommunityRepo()
	}

	tokens := opts.Tokens
	if tokens == nil {
		if issuer, ok := opts.AuthVerifier.(auth.TokenIssuer); ok {
			tokens = issuer
		} else {
			// tokens que nadie verifica: solo útil en modo dev
			tokens = jwtauth.NewManager(uuid.NewString(), 24*time.Hour)
		}
	}

	usersSvc := users.NewService(userRepo, tokens)
	petsSvc := pets.NewService(petRepo)

	return Services{
		Users:     usersSvc,
		Pets:      petsSvc,
		Health:    health.NewService(healthRepo, petsSvc),
		Habits: habits.NewService(habitRepo, petsSvc,
			habits.WithTrendCache(opts.TrendCache),
			habits.WithPublisher(opts.Publisher),
			habits.WithLogger(logger.Named(log, "habits")),
			habits.WithLocation(opts.Location),
			habits.WithClock(opts.Now),
		),
		Reminders: reminders.NewService(reminderRepo, petsSvc),
		Community: community.NewService(communityRepo, usersSvc, opts.Publisher, logger.Named(log, "community")),
	}
}
