package router

import (
	"github.com/oksasatya/my-maps-api/internal/application"
	"github.com/oksasatya/my-maps-api/internal/container"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/cache"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/persistence"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/my-maps-api/internal/interface/http"
	"github.com/oksasatya/my-maps-api/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repo.UserRepository
	Service *application.Service
	Handler *handlers.UserHandler
}

type TimelineModuleDeps struct {
	Repo    repo.TimelineRepository
	Service *application.TimelineService
	Handler *handlers.TimelineHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repo := persistence.NewUserRepository(container.GetEntityStore())

	var index *search.UserIndex
	if cfg.SearchEnabled && container.GetES() != nil {
		index = search.NewUserIndex(container.GetES(), cfg.ESUsersIndex, logger)
	}
	// a nil *RabbitPublisher must not end up inside a non-nil interface
	var mail application.JobPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}

	service := application.NewService(
		repo,
		application.NewAvatarIngestor(container.GetBlobStore()),
		index,
		mail,
		cfg,
		logger,
	)
	handler := handlers.NewUserHandler(service, index, logger)

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

func buildTimelineDeps() TimelineModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	var timelines repo.TimelineRepository = persistence.NewTimelineRepository(container.GetEntityStore())
	if cfg.TimelineCacheEnabled && container.GetRedis() != nil {
		timelines = cache.NewTimelineCache(timelines, container.GetRedis(), cfg.TimelineCacheTTL, logger)
	}

	service := application.NewTimelineService(timelines)
	return TimelineModuleDeps{
		Repo:    timelines,
		Service: service,
		Handler: handlers.NewTimelineHandler(service, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup, after the container is filled.
func InitModules(r *Registry) {
	r.Add(modules.NewHomeModule())
	r.Add(modules.NewUserModule(buildUserDeps().Handler))
	r.Add(modules.NewTimelineModule(buildTimelineDeps().Handler))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
