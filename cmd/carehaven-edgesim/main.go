package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"carehaven-edgesim/internal/config"
	"carehaven-edgesim/internal/connector"
	"carehaven-edgesim/internal/logger"
	"carehaven-edgesim/internal/mqtt"
	"carehaven-edgesim/internal/repository"
	"carehaven-edgesim/internal/service"
	"carehaven-edgesim/internal/simulator"
	"carehaven-edgesim/internal/store"
)

func main() {
	// 1. 加载配置（环境变量）
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 命令行参数覆盖模拟默认值
	mode := flag.String("mode", service.ModeMultidomain,
		"生成模式: profiles | multidomain | historical | stream | "+domainList())
	patients := flag.Int("patients", cfg.Sim.Patients, "患者数量")
	days := flag.Int("days", cfg.Sim.Days, "天数")
	startDate := flag.String("start-date", cfg.Sim.StartDate, "起始日期 (YYYY-MM-DD)")
	seed := flag.Int64("seed", cfg.Sim.Seed, "随机种子 (0 = 非确定性)")
	outputDir := flag.String("output-dir", cfg.Sim.OutputDir, "输出目录")
	profilesPath := flag.String("profiles", cfg.Sim.ProfilesPath, "患者档案 JSON 文件路径")
	useAllProfiles := flag.Bool("use-all-profiles", cfg.Sim.UseAllProfiles, "使用全部档案（忽略 -patients）")
	allowSynthetic := flag.Bool("allow-synthetic", cfg.Sim.AllowSynthetic, "无档案时允许合成患者ID")
	strictCount := flag.Bool("strict-count", cfg.Sim.StrictCount, "记录数不匹配时失败")
	xlsx := flag.Bool("xlsx", false, "同时导出 XLSX")
	flag.Parse()

	cfg.Sim.Patients = *patients
	cfg.Sim.Days = *days
	cfg.Sim.StartDate = *startDate
	cfg.Sim.Seed = *seed
	cfg.Sim.OutputDir = *outputDir
	cfg.Sim.ProfilesPath = *profilesPath
	cfg.Sim.UseAllProfiles = *useAllProfiles
	cfg.Sim.AllowSynthetic = *allowSynthetic
	cfg.Sim.StrictCount = *strictCount

	// 3. 初始化日志
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "carehaven-edgesim")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 4. 组装可选下游
	sinks, cleanup, err := buildSinks(cfg, log)
	if err != nil {
		log.Fatal("Failed to build sinks", zap.Error(err))
	}
	defer cleanup()

	svc := service.NewGenerationService(cfg, log, sinks)

	// 5. 运行（stream 模式支持信号优雅退出）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *mode == service.ModeStream {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			log.Info("Received signal, shutting down",
				zap.String("signal", sig.String()),
			)
			cancel()
		}()
	}

	if err := svc.Run(ctx, *mode, *xlsx); err != nil {
		log.Fatal("Generation run failed",
			zap.String("mode", *mode),
			zap.Error(err),
		)
	}

	log.Info("Generation run completed",
		zap.String("mode", *mode),
	)
}

// buildSinks 按配置连接数据库/Redis/连接器/MQTT，返回统一的资源释放函数
func buildSinks(cfg *config.Config, log *zap.Logger) (service.Sinks, func(), error) {
	var sinks service.Sinks
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.DBEnabled {
		db, err := sql.Open("postgres", cfg.Database.GetDSN())
		if err != nil {
			return sinks, cleanup, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return sinks, cleanup, fmt.Errorf("failed to ping database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdle)
		closers = append(closers, func() { db.Close() })

		sinks.ProfilesRepo = repository.NewProfilesRepository(db, log)
		sinks.SessionsRepo = repository.NewSessionsRepository(db, log)
		log.Info("Connected to database",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return sinks, cleanup, fmt.Errorf("failed to ping redis: %w", err)
		}
		closers = append(closers, func() { redisClient.Close() })

		sinks.Cache = store.NewSessionCache(cfg, store.NewRedisKV(redisClient), log)
		log.Info("Connected to Redis",
			zap.String("addr", cfg.Redis.Addr),
		)
	}

	if cfg.EdgeConnector.Enabled {
		if cfg.EdgeConnector.URL == "" {
			return sinks, cleanup, fmt.Errorf("EDGE_CONNECTOR_URL is required when edge connector is enabled")
		}
		sinks.Edge = connector.NewEdgeClient(cfg, log)
	}

	if cfg.MQTT.Enabled {
		publisher, err := mqtt.NewPublisher(cfg, log)
		if err != nil {
			return sinks, cleanup, err
		}
		closers = append(closers, publisher.Disconnect)
		sinks.Publisher = publisher
	}

	return sinks, cleanup, nil
}

func domainList() string {
	names := simulator.DomainNames()
	list := ""
	for i, n := range names {
		if i > 0 {
			list += " | "
		}
		list += n
	}
	return list
}
