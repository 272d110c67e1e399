package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/memory"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/postgres"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

type gameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	ListByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error)
	Update(ctx context.Context, id string, fn func(game *entity.Game) ([]entity.Result, error)) (*entity.Game, error)
}

type statisticRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (*entity.Statistic, error)
}

type invitationRepository interface {
	Create(ctx context.Context, invitation *entity.Invitation) error
	ListByReceiverID(ctx context.Context, receiverID string) ([]*entity.Invitation, error)
	Update(ctx context.Context, id string, fn func(invitation *entity.Invitation) error) (*entity.Invitation, error)
}

type repositories struct {
	users       userRepository
	games       gameRepository
	statistics  statisticRepository
	invitations invitationRepository

	close func()
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	repos, err := openRepositories(ctx, log, conf)
	if err != nil {
		return err
	}
	defer repos.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	clock := clockwork.NewRealClock()
	gameManager := usecase.NewGameManager(logger, clock, metrics.New(registry), repos.users, repos.games)
	userUseCase := usecase.NewUserUseCase(clock, repos.users, repos.statistics, repos.games)
	invitationUseCase := usecase.NewInvitationUseCase(logger, clock, repos.users, repos.invitations, gameManager)

	router := rest.NewRouter(logger, gameManager, userUseCase, invitationUseCase, registry)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage)
		httpErrCh <- rest.Start(ctx, conf.HTTPPort, router, conf.ShutdownTimeout)
	}()

	select {
	case err = <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		if err = <-httpErrCh; err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	}
}

func openRepositories(ctx context.Context, log *slog.Logger, conf *config.Config) (*repositories, error) {
	switch conf.Storage {
	case config.StoragePostgres:
		pg, err := storage.NewPostgresStorage(ctx, conf.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("could not connect to postgres storage: %w", err)
		}

		if err = pg.Init(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("could not init postgres storage: %w", err)
		}

		return &repositories{
			users:       postgres.NewUserRepository(pg.Connection),
			games:       postgres.NewGameRepository(pg.Connection),
			statistics:  postgres.NewStatisticRepository(pg.Connection),
			invitations: postgres.NewInvitationRepository(pg.Connection),
			close:       pg.Close,
		}, nil

	case config.StorageMemory:
		mem := memory.NewStorage()

		return &repositories{
			users:       memory.NewUserRepository(mem),
			games:       memory.NewGameRepository(mem),
			statistics:  memory.NewStatisticRepository(mem),
			invitations: memory.NewInvitationRepository(mem),
			close:       func() {},
		}, nil

	default:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return &repositories{
			users:       repository.NewUserRepository(redisStorage.Connection),
			games:       repository.NewGameRepository(redisStorage.Connection),
			statistics:  repository.NewStatisticRepository(redisStorage.Connection),
			invitations: repository.NewInvitationRepository(redisStorage.Connection),
			close: func() {
				if err := redisStorage.Close(); err != nil {
					log.Error("could not close redis storage", "error", err)
				}
			},
		}, nil
	}
}
