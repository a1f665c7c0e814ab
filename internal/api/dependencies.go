package api

import (
	"fmt"

	"infinite-experiment/flightboard/internal/common"
	"infinite-experiment/flightboard/internal/config"
	"infinite-experiment/flightboard/internal/db"
	"infinite-experiment/flightboard/internal/db/repositories"
	"infinite-experiment/flightboard/internal/forms"
	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/metrics"
	"infinite-experiment/flightboard/internal/providers"
	"infinite-experiment/flightboard/internal/services"
	"infinite-experiment/flightboard/internal/store"
)

type Repositories struct {
	// Audit is nil when the journal is disabled.
	Audit *repositories.AuditRepository
}

type Services struct {
	Provider  providers.FlightOpsClient
	Store     *store.EntityStore
	Board     *services.BoardService
	Mutations *services.MutationService
	Forms     *forms.Adapter
	Cache     common.CacheInterface
}

type Dependencies struct {
	Config   *config.Config
	Metrics  *metrics.MetricsRegistry
	Repo     *Repositories
	Services *Services
	AuditDB  *db.AuditDB
	Redis    *common.RedisCacheService
}

// InitDependencies wires the production provider, cache and audit journal.
func InitDependencies(cfg *config.Config, m *metrics.MetricsRegistry) (*Dependencies, error) {
	provider := providers.NewFlightOpsProvider(cfg.FlightOps, m)

	auditDB, err := db.OpenAudit(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit journal: %w", err)
	}

	deps, err := NewDependencies(cfg, provider, auditDB, m)
	if err != nil {
		if auditDB != nil {
			auditDB.Close()
		}
		return nil, err
	}
	return deps, nil
}

// NewDependencies wires everything around an existing client. auditDB may
// be nil.
func NewDependencies(cfg *config.Config, client providers.FlightOpsClient, auditDB *db.AuditDB, m *metrics.MetricsRegistry) (*Dependencies, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	repos := &Repositories{}
	var audit services.AuditRecorder
	if auditDB != nil {
		repos.Audit = repositories.NewAuditRepository(auditDB)
		audit = repos.Audit
	}

	deps := &Dependencies{
		Config:  cfg,
		Metrics: m,
		Repo:    repos,
		AuditDB: auditDB,
	}

	var cache common.CacheInterface
	if cfg.Cache.Backend == "redis" {
		redisCache, err := common.NewRedisCacheService(common.NewRedisClient(cfg.Redis))
		if err != nil {
			logging.Warn("Redis unavailable, using in-memory board cache", "addr", cfg.Redis.Addr(), "error", err.Error())
		} else {
			deps.Redis = redisCache
			cache = redisCache
		}
	}
	if cache == nil {
		cache = common.NewCacheService(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}

	norm := common.NewNormalizer(loc, m)
	entityStore := store.NewEntityStore(client, norm, m)

	deps.Services = &Services{
		Provider:  client,
		Store:     entityStore,
		Board:     services.NewBoardService(entityStore, client, norm, cache, cfg.Cache.TTL, loc, m),
		Mutations: services.NewMutationService(client, entityStore, norm, audit, m),
		Forms:     forms.NewAdapter(loc),
		Cache:     cache,
	}
	return deps, nil
}

// Close releases the cache and journal connections.
func (d *Dependencies) Close() {
	if err := d.Services.Cache.Close(); err != nil {
		logging.Warn("Failed to close cache", "error", err.Error())
	}
	if d.AuditDB != nil {
		if err := d.AuditDB.Close(); err != nil {
			logging.Warn("Failed to close audit journal", "error", err.Error())
		}
	}
}
