package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"modelshop/internal/audit"
	"modelshop/internal/config"
	"modelshop/internal/events"
	"modelshop/internal/filestore"
	"modelshop/internal/service/account"
	"modelshop/internal/service/assign"
	generateexcel "modelshop/internal/service/generate-excel"
	"modelshop/internal/service/jobs"
	"modelshop/internal/service/tasks"
	"modelshop/internal/service/workorder"
	"modelshop/internal/session"
	"modelshop/internal/storage/mysql"
)

// app holds the wired dependencies of the HTTP server.
type app struct {
	storage   *mysql.Storage
	redis     *redis.Client
	publisher events.Publisher
	files     filestore.Store
	localDir  string
	blacklist session.Blacklist
	audit     *audit.Recorder

	tasks     *tasks.Service
	assign    *assign.Service
	jobs      *jobs.Service
	workOrder *workorder.Service
	account   *account.Service
	report    *generateexcel.GenerateExcelService
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	storage, err := mysql.New(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	a := &app{storage: storage}

	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.blacklist = session.NewRedis(a.redis)
	} else {
		log.Warn("redis is not configured, revoked tokens are kept in memory")
		a.blacklist = session.NewMemory()
	}

	if len(cfg.Kafka.Brokers) > 0 {
		a.publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		a.publisher = events.Nop{}
	}

	switch cfg.Files.Backend {
	case "minio":
		a.files, err = filestore.NewMinio(ctx,
			cfg.Files.MinioEndpoint,
			cfg.Files.MinioAccessKey,
			cfg.Files.MinioSecretKey,
			cfg.Files.MinioBucket,
			cfg.Files.MinioUseSSL,
		)
	default:
		var local *filestore.Local
		local, err = filestore.NewLocal(cfg.Files.LocalDir, cfg.Files.PublicPrefix)
		if err == nil {
			a.files = local
			a.localDir = local.Dir()
		}
	}
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init file store: %w", err)
	}

	a.audit = audit.New(log, storage)
	a.tasks = tasks.New(log, storage, a.publisher, a.audit)
	a.assign = assign.New(log, storage, a.tasks, a.publisher, a.audit)
	a.jobs = jobs.New(storage)
	a.workOrder = workorder.New(log, storage, a.audit)
	a.account = account.New(log, storage, a.blacklist, a.audit, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	a.report = generateexcel.NewGenerateService(a.jobs)

	return a, nil
}

func (a *app) Close() {
	if a.publisher != nil {
		_ = a.publisher.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.storage.Close()
}
