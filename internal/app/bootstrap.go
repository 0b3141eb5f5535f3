package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/cache"
	"github.com/prn-tf/atlant-cms/internal/config"
	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/repository"
	"github.com/prn-tf/atlant-cms/internal/repository/memory"
	"github.com/prn-tf/atlant-cms/internal/repository/postgres"
	"github.com/prn-tf/atlant-cms/internal/repository/sqlite"
	"github.com/prn-tf/atlant-cms/internal/service"
	"github.com/prn-tf/atlant-cms/internal/storage"
)

// cacheTTL is how long read-through cache entries live. Content for a
// marketing site changes rarely; invalidation on write keeps reads
// fresh anyway.
const cacheTTL = 10 * time.Minute

// Backends holds everything Bootstrap wires together.
type Backends struct {
	Services Services
	Storage  storage.Backend

	// Health pings the backing database. Nil for the memory driver.
	Health func(ctx context.Context) error

	closers []func() error
}

// Close releases the backing connections in reverse open order.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// repoBuilder carries the open database handles so the generic
// constructor can pick the right backend per collection.
type repoBuilder struct {
	driver   string
	sqlite   *sqlite.DB
	postgres *postgres.DB
}

func newRepo[T domain.Aggregate](ctx context.Context, b *repoBuilder, spec repository.CollectionSpec[T]) (repository.Repository[T], error) {
	switch b.driver {
	case "sqlite":
		return sqlite.NewCollection(ctx, b.sqlite, spec)
	case "postgres":
		return postgres.NewCollection(ctx, b.postgres, spec)
	default:
		return memory.New(spec), nil
	}
}

// Bootstrap opens the backing stores and builds every service from the
// configuration.
func Bootstrap(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backends, error) {
	b := &Backends{}

	// Cache and locks share the Redis connection when enabled;
	// otherwise both run in-process.
	var (
		readCache cache.Cache
		locks     lock.Locker
	)
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, redisCache.Close)
		readCache = redisCache
		locks = lock.NewRedisLocker(redisCache.Client())
	} else {
		mem := cache.NewMemory()
		b.closers = append(b.closers, mem.Close)
		readCache = mem
		locks = lock.NewMemoryLocker()
	}

	builder := &repoBuilder{driver: cfg.Database.Driver}
	switch cfg.Database.Driver {
	case "sqlite":
		dbCfg := sqlite.DefaultConfig(cfg.Database.Path)
		if cfg.Database.JournalMode != "" {
			dbCfg.JournalMode = cfg.Database.JournalMode
		}
		if cfg.Database.BusyTimeout > 0 {
			dbCfg.BusyTimeout = cfg.Database.BusyTimeout
		}
		db, err := sqlite.NewDB(ctx, dbCfg, logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		b.Health = db.Health
		builder.sqlite = db
	case "postgres":
		db, err := postgres.NewDB(ctx, postgres.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Database,
			SSLMode:  cfg.Database.SSLMode,
			MaxConns: int32(cfg.Database.MaxConns),
		}, logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		b.Health = db.Health
		builder.postgres = db
	case "memory":
		// Volatile store for development and tests.
	default:
		b.Close()
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	groupRepo, err := newRepo(ctx, builder, repository.CertificateGroups())
	if err != nil {
		b.Close()
		return nil, err
	}
	itemRepo, err := newRepo(ctx, builder, repository.CertificateItems())
	if err != nil {
		b.Close()
		return nil, err
	}
	certRepo, err := newRepo(ctx, builder, repository.Certificates())
	if err != nil {
		b.Close()
		return nil, err
	}
	memberRepo, err := newRepo(ctx, builder, repository.Members())
	if err != nil {
		b.Close()
		return nil, err
	}
	newsRepo, err := newRepo(ctx, builder, repository.News())
	if err != nil {
		b.Close()
		return nil, err
	}
	portfolioRepo, err := newRepo(ctx, builder, repository.Portfolios())
	if err != nil {
		b.Close()
		return nil, err
	}
	productRepo, err := newRepo(ctx, builder, repository.Products())
	if err != nil {
		b.Close()
		return nil, err
	}
	reviewRepo, err := newRepo(ctx, builder, repository.Reviews())
	if err != nil {
		b.Close()
		return nil, err
	}
	seoRepo, err := newRepo(ctx, builder, repository.SeoSettings())
	if err != nil {
		b.Close()
		return nil, err
	}
	submissionRepo, err := newRepo(ctx, builder, repository.Submissions())
	if err != nil {
		b.Close()
		return nil, err
	}
	vacancyRepo, err := newRepo(ctx, builder, repository.Vacancies())
	if err != nil {
		b.Close()
		return nil, err
	}
	userRepo, err := newRepo(ctx, builder, repository.Users())
	if err != nil {
		b.Close()
		return nil, err
	}

	// SEO settings and news are read on every page render; both get a
	// read-through cache in front of the database.
	seoCached := repository.NewCached(seoRepo, readCache, repository.SeoSettings(), cacheTTL, logger)
	newsCached := repository.NewCached(newsRepo, readCache, repository.News(), cacheTTL, logger)

	var backend storage.Backend
	switch cfg.Storage.Backend {
	case "s3":
		backend, err = storage.NewS3(ctx, storage.S3Config{
			Endpoint:     cfg.Storage.S3.Endpoint,
			Region:       cfg.Storage.S3.Region,
			Bucket:       cfg.Storage.S3.Bucket,
			AccessKey:    cfg.Storage.S3.AccessKeyID,
			SecretKey:    cfg.Storage.S3.SecretAccessKey,
			PublicURL:    cfg.Storage.S3.PublicURL,
			UsePathStyle: cfg.Storage.S3.UsePathStyle,
		})
	default:
		backend, err = storage.NewLocal(cfg.Storage.DataDir, cfg.Storage.BaseURL)
	}
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Storage = backend

	b.Services = Services{
		CertificateGroups: service.NewCertificateGroupService(groupRepo, certRepo, locks, logger),
		CertificateItems:  service.NewCertificateItemService(itemRepo, certRepo, locks, logger),
		Certificates:      service.NewCertificateService(certRepo, groupRepo, itemRepo, locks, logger),
		Members:           service.NewMemberService(memberRepo, locks, logger),
		News:              service.NewNewsService(newsCached, locks, logger),
		Portfolios:        service.NewPortfolioService(portfolioRepo, locks, logger),
		Products:          service.NewProductService(productRepo, portfolioRepo, locks, logger),
		Reviews:           service.NewReviewService(reviewRepo, locks, logger),
		SeoSettings:       service.NewSeoSettingsService(seoCached, locks, logger),
		Submissions:       service.NewSubmissionService(submissionRepo, locks, logger),
		Vacancies:         service.NewVacancyService(vacancyRepo, locks, logger),
		Users:             service.NewUserService(userRepo, locks, logger),
		Files:             service.NewFileService(backend, logger),
	}
	return b, nil
}
