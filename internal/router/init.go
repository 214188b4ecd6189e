package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/config"
	"github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/internal/container"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	gcsinfra "github.com/oksasatya/devconnector/internal/infrastructure/gcs"
	ghinfra "github.com/oksasatya/devconnector/internal/infrastructure/github"
	meminfra "github.com/oksasatya/devconnector/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/devconnector/internal/infrastructure/postgres"
	searchinfra "github.com/oksasatya/devconnector/internal/infrastructure/search"
	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/router/modules"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/metrics"
)

// Stores groups the three collections behind their repository interfaces.
type Stores struct {
	Users    repo.UserRepository
	Profiles repo.ProfileRepository
	Posts    repo.PostRepository
}

func MemoryStores() Stores {
	return Stores{
		Users:    meminfra.NewUserRepository(),
		Profiles: meminfra.NewProfileRepository(),
		Posts:    meminfra.NewPostRepository(),
	}
}

func storesFromContainer(cfg *config.Config) Stores {
	pool := container.GetPGPool()
	if cfg.UseMemoryStore() || pool == nil {
		return MemoryStores()
	}
	return Stores{
		Users:    pginfra.NewUserRepository(pool),
		Profiles: pginfra.NewProfileRepository(pool),
		Posts:    pginfra.NewPostRepository(pool),
	}
}

// Deps is everything the feature modules need to register their routes.
type Deps struct {
	Users    *handlers.UserHandler
	Auth     *handlers.AuthHandler
	Profiles *handlers.ProfileHandler
	Posts    *handlers.PostHandler
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Metrics  *metrics.Metrics
}

// Services are the application services behind the handlers. Optional
// collaborators left nil are skipped by the services.
type Services struct {
	Users    *application.UserService
	Profiles *application.ProfileService
	Posts    *application.PostService
	GitHub   handlers.RepoLister
}

func NewDeps(s Services, jwt *helpers.JWTManager, rdb *redis.Client, m *metrics.Metrics, logger *logrus.Logger) Deps {
	return Deps{
		Users:    handlers.NewUserHandler(s.Users, logger),
		Auth:     handlers.NewAuthHandler(s.Users, logger),
		Profiles: handlers.NewProfileHandler(s.Profiles, s.GitHub, logger),
		Posts:    handlers.NewPostHandler(s.Posts, logger),
		JWT:      jwt,
		Redis:    rdb,
		Metrics:  m,
	}
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	m := container.GetMetrics()
	stores := storesFromContainer(cfg)

	// Interface fields must stay untyped nil when a backend is absent.
	var mail application.EmailPublisher
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		mail = pub
	}
	var avatars application.AvatarStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		avatars = gcsinfra.NewAvatarStore(gcs, cfg.GCSBucket)
	}
	var index application.PostIndex
	if es := container.GetES(); es != nil && cfg.ESPostsIndex != "" {
		index = searchinfra.NewPostIndex(es, cfg.ESPostsIndex)
	}

	svcs := Services{
		Users:    application.NewUserService(stores.Users, container.GetJWT(), avatars, mail, logger, cfg.AppName),
		Profiles: application.NewProfileService(stores.Profiles, stores.Users, m, logger),
		Posts:    application.NewPostService(stores.Posts, stores.Users, index, mail, m, logger, cfg.AppName),
		GitHub: ghinfra.NewClient(cfg.GitHubAPIURL, cfg.GitHubClientID, cfg.GitHubClientSecret,
			cfg.GitHubTimeout, cfg.GitHubCacheTTL, rdb, logger),
	}
	return NewDeps(svcs, container.GetJWT(), rdb, m, logger)
}

// RegisterModules adds every feature module to the registry.
func RegisterModules(r *Registry, d Deps) {
	r.Add(modules.NewUserModule(d.Users, d.JWT, d.Redis))
	r.Add(modules.NewAuthModule(d.Auth, d.JWT, d.Redis))
	r.Add(modules.NewProfileModule(d.Profiles, d.JWT, d.Redis))
	r.Add(modules.NewPostModule(d.Posts, d.JWT, d.Redis))
	if d.Metrics != nil {
		r.Add(modules.NewMetricsModule(d.Metrics, d.Redis))
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	RegisterModules(r, buildDeps())
}
