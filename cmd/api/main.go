package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-x3/internal/application/reconciliation"
	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/excel"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/lock"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-x3/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/sqlite"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/textenc"
	httpRouter "github.com/jhoicas/Inventario-x3/internal/interfaces/http"
	"github.com/jhoicas/Inventario-x3/pkg/config"
	"github.com/jhoicas/Inventario-x3/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios de sesiones y tablas del driver elegido.
type storage struct {
	sessions repository.SessionRepository
	tables   repository.TableStore
	tx       repository.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if err := textenc.Validate(cfg.X3.InputEncoding); err != nil {
		log.Fatal().Err(err).Str("encoding", cfg.X3.InputEncoding).Msg("codificación de entrada")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("almacenamiento de sesiones")
	}
	defer store.close()

	var locker repository.SessionLocker = memory.NewLocker()
	if cfg.Redis.Address != "" {
		client, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("address", cfg.Redis.Address).Msg("conexión a Redis")
		}
		redisLocker := lock.NewRedisLocker(client, time.Duration(cfg.Redis.LockTTLSeconds)*time.Second)
		defer redisLocker.Close()
		locker = redisLocker
		log.Info().Str("address", cfg.Redis.Address).Msg("bloqueo de sesiones en Redis")
	}

	svc, err := reconciliation.NewService(reconciliation.Deps{
		Sessions: store.sessions,
		Tables:   store.tables,
		Tx:       store.tx,
		Locker:   locker,
		Sheets:   excel.Codec{},
		Decoder:  textenc.Decoder{Encoding: cfg.X3.InputEncoding},
		Reports:  infrapdf.NewMarotoReportGenerator(),
		Logger:   log.Named("reconciliation"),
	}, reconciliation.OptionsFromConfig(cfg.X3, cfg.HTTP.MaxUploadBytes()))
	if err != nil {
		log.Fatal().Err(err).Msg("configuración X3 inválida")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.MaxUploadBytes() + 1024*1024,
		ReadTimeout:  time.Second * 60,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario X3 API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("documentación swagger no encontrada")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:        cfg.App.Name,
		Reconciliation: svc,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{
			sessions: postgres.NewSessionRepository(pool),
			tables:   postgres.NewTableStore(pool),
			tx:       postgres.NewTxRunner(pool),
			close:    pool.Close,
		}, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &storage{
			sessions: db.Store,
			tables:   db.Store,
			tx:       db,
			close:    func() { _ = db.Close() },
		}, nil
	default:
		mem := memory.NewStore()
		return &storage{
			sessions: mem,
			tables:   mem,
			tx:       memory.NewTxRunner(mem),
			close:    func() {},
		}, nil
	}
}
