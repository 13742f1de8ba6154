package command

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-mudcore/internal/storage"
	"github.com/pixil98/go-testutil"
	"github.com/stretchr/testify/require"
)

func validConfig(dir string) *Config {
	return &Config{
		Listeners: []ListenerConfig{{Protocol: ListenerTypeTelnet, Port: 4000}},
		Storage: StorageConfig{
			Rooms:    StoreConfig{Path: filepath.Join(dir, "rooms")},
			Items:    StoreConfig{Backend: BackendBolt, Path: filepath.Join(dir, "mud.db")},
			Accounts: StoreConfig{Backend: BackendSQLite, Path: filepath.Join(dir, "mud.sqlite")},
		},
		World: WorldConfig{StartZone: 0, StartRoom: 1, SweepInterval: "30s"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(*Config)
		expErrs []string
	}{
		"valid": {
			mutate: func(*Config) {},
		},
		"no listeners": {
			mutate:  func(c *Config) { c.Listeners = nil },
			expErrs: []string{"at least one listener is required"},
		},
		"listener without port": {
			mutate:  func(c *Config) { c.Listeners[0].Port = 0 },
			expErrs: []string{"listener 0: port must be set"},
		},
		"host key on telnet": {
			mutate:  func(c *Config) { c.Listeners[0].HostKeyPath = "/tmp/key" },
			expErrs: []string{"host_key_path only applies to ssh"},
		},
		"bad storage": {
			mutate: func(c *Config) {
				c.Storage.Rooms.Backend = "tape"
				c.Storage.Items.Path = ""
			},
			expErrs: []string{`rooms: unknown backend "tape"`, "items: path is required"},
		},
		"bad world": {
			mutate: func(c *Config) {
				c.World.StartRoom = 1000
				c.World.SweepInterval = "10ms"
			},
			expErrs: []string{"start_room must be between", "sweep_interval must be at least"},
		},
		"bad log level": {
			mutate:  func(c *Config) { c.LogLevel = "chatty" },
			expErrs: []string{"log_level"},
		},
		"bad nats timeout": {
			mutate:  func(c *Config) { c.Nats.StartTimeout = "soon" },
			expErrs: []string{"parsing start_timeout"},
		},
		"missing command file": {
			mutate:  func(c *Config) { c.Commands.Path = "/does/not/exist.json" },
			expErrs: []string{"commands:"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig(t.TempDir())
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.expErrs) == 0 {
				require.NoError(t, err)
				return
			}
			for _, exp := range tt.expErrs {
				testutil.AssertErrorContains(t, err, exp)
			}
		})
	}
}

func TestListenerType_UnmarshalText(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    ListenerType
		expErr bool
	}{
		"telnet":  {in: "telnet", exp: ListenerTypeTelnet},
		"tcp":     {in: "tcp", exp: ListenerTypeTCP},
		"ssh":     {in: "ssh", exp: ListenerTypeSSH},
		"unknown": {in: "gopher", expErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var lt ListenerType
			err := lt.UnmarshalText([]byte(tt.in))
			testutil.AssertEqual(t, "error", err != nil, tt.expErr)
			if !tt.expErr {
				testutil.AssertEqual(t, "type", lt, tt.exp)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	cfg := validConfig(t.TempDir())
	t.Setenv("MUD_START_ZONE", "7")
	t.Setenv("MUD_ROOMS_BACKEND", "bolt")
	t.Setenv("MUD_METRICS_ADDRESS", ":9100")
	t.Setenv("MUD_NATS_ENABLED", "true")

	require.NoError(t, cfg.applyEnv())

	testutil.AssertEqual(t, "start zone", cfg.World.StartZone, 7)
	testutil.AssertEqual(t, "start room untouched", cfg.World.StartRoom, 1)
	testutil.AssertEqual(t, "rooms backend", cfg.Storage.Rooms.Backend, BackendBolt)
	testutil.AssertEqual(t, "metrics", cfg.Metrics.Address, ":9100")
	testutil.AssertEqual(t, "nats", cfg.Nats.Enabled, true)
}

func TestDatabases_Shared(t *testing.T) {
	dir := t.TempDir()
	dbs := newDatabases()
	defer dbs.Close()

	path := filepath.Join(dir, "mud.db")
	rooms, err := dbs.backend("rooms", StoreConfig{Backend: BackendBolt, Path: path})
	require.NoError(t, err)
	items, err := dbs.backend("items", StoreConfig{Backend: BackendBolt, Path: path})
	require.NoError(t, err)
	testutil.AssertEqual(t, "bolt handles", len(dbs.bolt), 1)

	require.NoError(t, rooms.Write("000:001", []byte(`{}`)))
	ok, err := items.Exists("000:001")
	require.NoError(t, err)
	testutil.AssertEqual(t, "buckets separate", ok, false)
}

func TestBuildWorkers(t *testing.T) {
	dir := t.TempDir()
	cfg := validConfig(dir)
	cfg.Listeners = append(cfg.Listeners, ListenerConfig{Protocol: ListenerTypeTCP, Port: 4001})
	cfg.Metrics.Address = "127.0.0.1:0"

	rooms, err := storage.NewFileStore(cfg.Storage.Rooms.Path)
	require.NoError(t, err)
	data, err := json.Marshal(map[string]any{"zoneId": 0, "roomId": 1, "name": "Plaza"})
	require.NoError(t, err)
	require.NoError(t, rooms.Write("000:001", data))

	workers, err := BuildWorkers(cfg)
	require.NoError(t, err)

	for _, name := range []string{"storage", "players", "listener-0", "listener-1", "metrics", "driver"} {
		_, ok := workers[name]
		testutil.AssertEqual(t, name, ok, true)
	}
	_, ok := workers["nats"]
	testutil.AssertEqual(t, "nats", ok, false)

	// BuildWorkers opened the databases; release them for the temp dir cleanup.
	c := workers["storage"].(*loggedWorker).w.(*closer)
	require.NoError(t, c.dbs.Close())
}

func TestBuildWorkers_MissingStartRoom(t *testing.T) {
	cfg := validConfig(t.TempDir())

	_, err := BuildWorkers(cfg)
	testutil.AssertErrorContains(t, err, "start room 000:001 does not exist")
}
