package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carehaven/carehome-admin/config"
	"github.com/carehaven/carehome-admin/internal/adapters/filestore"
	redisadapter "github.com/carehaven/carehome-admin/internal/adapters/redis"
	"github.com/carehaven/carehome-admin/internal/backend"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	"github.com/carehaven/carehome-admin/internal/ports"
	"github.com/carehaven/carehome-admin/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

// Backends holds one typed client per backend resource, all sharing a single HTTP client.
type Backends struct {
	Auth                    *backend.AuthClient
	Users                   *backend.UserClient
	Documents               *backend.DocumentClient
	CareHomes               *backend.CareHomeClient
	Plans                   *backend.PlanClient
	Company                 *backend.CompanyClient
	Residents               *backend.ProfileClient[model.Resident]
	Caregivers              *backend.ProfileClient[model.Caregiver]
	HealthcareProfessionals *backend.ProfileClient[model.HealthcareProfessional]
	InterviewCandidates     *backend.ProfileClient[model.InterviewCandidate]
}

// BackendDeps groups inputs for BuildBackends.
type BackendDeps struct {
	Config    config.BackendConfig
	Tokens    backend.TokenSource
	CookieJar bool
	Logger    *slog.Logger
}

// BuildBackends creates the backend HTTP client and the per-resource clients on top of it.
func BuildBackends(deps BackendDeps) (Backends, error) {
	client, err := backend.NewClient(backend.Config{
		BaseURL:   deps.Config.BaseURL,
		Timeout:   deps.Config.Timeout,
		Tokens:    deps.Tokens,
		CookieJar: deps.CookieJar,
		Logger:    deps.Logger,
	})
	if err != nil {
		return Backends{}, fmt.Errorf("create backend client: %w", err)
	}

	return Backends{
		Auth:                    backend.NewAuthClient(client),
		Users:                   backend.NewUserClient(client),
		Documents:               backend.NewDocumentClient(client),
		CareHomes:               backend.NewCareHomeClient(client),
		Plans:                   backend.NewPlanClient(client),
		Company:                 backend.NewCompanyClient(client),
		Residents:               backend.NewProfileClient[model.Resident](client, model.ProfileResidents),
		Caregivers:              backend.NewProfileClient[model.Caregiver](client, model.ProfileCaregivers),
		HealthcareProfessionals: backend.NewProfileClient[model.HealthcareProfessional](client, model.ProfileHealthcareProfessionals),
		InterviewCandidates:     backend.NewProfileClient[model.InterviewCandidate](client, model.ProfileInterviewCandidates),
	}, nil
}

// SessionStoreDeps groups inputs for BuildSessionStore.
type SessionStoreDeps struct {
	Session     config.SessionConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// memorySessionDir is the root of the in-memory session filesystem.
const memorySessionDir = "/sessions"

// BuildSessionStore selects the session store named by the configuration.
// The memory store keeps one JSON record per session on an in-memory filesystem.
//
//nolint:ireturn // the concrete store depends on configuration.
func BuildSessionStore(deps SessionStoreDeps) (ports.SessionStore, error) {
	switch deps.Session.Store {
	case config.SessionStoreMemory:
		if deps.Logger != nil {
			deps.Logger.Warn("using in-memory session store; sessions are lost on restart")
		}
		return filestore.NewSessionStore(afero.NewMemMapFs(), memorySessionDir)
	case config.SessionStoreRedis, "":
		if deps.RedisClient == nil {
			return nil, fmt.Errorf("session store %q requires a redis client", config.SessionStoreRedis)
		}
		return redisadapter.NewSessionStore(deps.RedisClient, deps.Session.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", deps.Session.Store)
	}
}

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Backends   Backends
	Sessions   *service.SessionService
	Auth       *service.AuthService
	Dashboard  *service.DashboardService
	Pagination config.PaginationConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// InitializeServices wires the session store, backend clients, and application services.
// The backend bearer token is resolved per request from the session id carried in the context.
func InitializeServices(ctx context.Context, deps ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := BuildSessionStore(SessionStoreDeps{
		Session:     cfg.Session,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	// The token source closes over the session service, which is created after the clients.
	var sessions *service.SessionService
	backends, err := BuildBackends(BackendDeps{
		Config: cfg.Backend,
		Tokens: backend.TokenFunc(func(ctx context.Context) string {
			return sessions.Token(ctx)
		}),
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	sessions = service.NewSessionService(service.SessionServiceOptions{
		Store:   store,
		Auth:    backends.Auth,
		Company: backends.Company,
		Config:  service.SessionConfig{TTL: cfg.Session.TTL},
		Logger:  logger,
	})

	auth, err := BuildAuthService(ctx, AuthConfig{
		Auth:     cfg.Auth,
		Backend:  backends.Auth,
		Users:    backends.Users,
		Sessions: sessions,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	dashboard := service.NewDashboardService(service.DashboardServiceOptions{
		Backends: service.DashboardBackends{
			Users:      backends.Users,
			Documents:  backends.Documents,
			CareHomes:  backends.CareHomes,
			Plans:      backends.Plans,
			Residents:  backends.Residents,
			Caregivers: backends.Caregivers,
		},
		Logger: logger,
	})

	return ServiceContainer{
		Backends:   backends,
		Sessions:   sessions,
		Auth:       auth,
		Dashboard:  dashboard,
		Pagination: cfg.Pagination,
	}, nil
}
