package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/driver"
	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-mudcore/internal/listener"
	"github.com/pixil98/go-mudcore/internal/log"
	"github.com/pixil98/go-mudcore/internal/metrics"
	"github.com/pixil98/go-mudcore/internal/player"
	"github.com/pixil98/go-mudcore/internal/storage"
	"github.com/pixil98/go-service/service"
	"github.com/sirupsen/logrus"
)

type worker interface {
	Start(ctx context.Context) error
}

// loggedWorker hands its worker a context carrying the process logger. When
// running is set it is marked done once the worker returns.
type loggedWorker struct {
	w       worker
	logger  logrus.FieldLogger
	running *sync.WaitGroup
}

func (l *loggedWorker) Start(ctx context.Context) error {
	if l.running != nil {
		defer l.running.Done()
	}
	return l.w.Start(log.SetLogger(ctx, l.logger))
}

// closer releases database handles once the workers that write through them
// have stopped.
type closer struct {
	dbs     *databases
	running *sync.WaitGroup
	logger  logrus.FieldLogger
}

func (c *closer) Start(ctx context.Context) error {
	<-ctx.Done()
	c.running.Wait()
	if err := c.dbs.Close(); err != nil {
		c.logger.WithError(err).Warn("closing databases")
	}
	return nil
}

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	logger := log.NewLogger()
	if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("parsing log_level: %w", err)
		}
		logger.SetLevel(level)
	}

	workers := service.WorkerList{}
	var running sync.WaitGroup
	add := func(name string, w worker) {
		workers[name] = &loggedWorker{w: w, logger: logger.WithField("worker", name)}
	}
	// Sessions save through the stores as they close.
	addWriter := func(name string, w worker) {
		running.Add(1)
		workers[name] = &loggedWorker{w: w, logger: logger.WithField("worker", name), running: &running}
	}

	// Storage
	dbs := newDatabases()
	rooms, err := dbs.backend("rooms", cfg.Storage.Rooms)
	if err != nil {
		dbs.Close()
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	items, err := dbs.backend("items", cfg.Storage.Items)
	if err != nil {
		dbs.Close()
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	accounts, err := dbs.backend("accounts", cfg.Storage.Accounts)
	if err != nil {
		dbs.Close()
		return nil, fmt.Errorf("creating account store: %w", err)
	}
	add("storage", &closer{dbs: dbs, running: &running, logger: logger})

	// World
	registryOpts := []game.RegistryOpt{}
	if cfg.World.PasswordIterations > 0 {
		registryOpts = append(registryOpts, game.WithPasswordIterations(cfg.World.PasswordIterations))
	}
	if cfg.Nats.Enabled {
		bus, err := cfg.Nats.buildNatsServer()
		if err != nil {
			dbs.Close()
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		registryOpts = append(registryOpts, game.WithBus(bus))
		add("nats", bus)
	}

	roomStore := game.NewRoomStore(storage.NewCollection[*game.Room](rooms), logger)
	itemStore := game.NewItemStore(storage.NewCollection[*game.Item](items), logger)
	users := game.NewRegistry(storage.NewCollection[*game.Account](accounts), roomStore, logger, registryOpts...)
	world := game.NewWorld(roomStore, itemStore, users, cfg.World.StartZone, cfg.World.StartRoom)

	if !roomStore.Exists(world.StartKey()) {
		dbs.Close()
		return nil, fmt.Errorf("start room %s does not exist", world.StartKey())
	}

	// Commands
	var routerOpts []commands.RouterOpt
	tickers := map[string]driver.Ticker{
		"sweeper": game.NewRoomSweeper(world),
	}
	if cfg.Metrics.Address != "" {
		m := metrics.NewMetrics(world)
		routerOpts = append(routerOpts, commands.WithObserver(m))
		tickers["metrics"] = m
		add("metrics", metrics.NewServer(cfg.Metrics.Address, m))
	}

	router := commands.NewRouter(world, logger, routerOpts...)
	defs, err := cfg.Commands.load()
	if err != nil {
		dbs.Close()
		return nil, fmt.Errorf("loading commands: %w", err)
	}
	if err := router.Load(defs); err != nil {
		dbs.Close()
		return nil, fmt.Errorf("compiling commands: %w", err)
	}

	// Players and listeners
	pm := player.NewPlayerManager(world, router, cfg.Text.texts())
	add("players", pm)

	cm := listener.NewConnectionManager(pm)
	for i, l := range cfg.Listeners {
		lw, err := l.BuildListener(cm, logger)
		if err != nil {
			dbs.Close()
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		addWriter(fmt.Sprintf("listener-%d", i), lw)
	}

	addWriter("driver", driver.NewMudDriver(tickers, driver.WithTickLength(cfg.World.sweepInterval())))

	return workers, nil
}
