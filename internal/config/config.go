package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
	mc "github.com/saeidalz13/battleship-p2p/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

type Config struct {
	Stage      string `env:"STAGE" envDefault:"dev"`
	PlayerName string `env:"PLAYER_NAME" envDefault:"player"`

	MatchPort           int           `env:"MATCH_PORT" envDefault:"8080"`
	DiscoveryPort       int           `env:"DISCOVERY_PORT" envDefault:"8081"`
	DiscoveryInterval   time.Duration `env:"DISCOVERY_INTERVAL" envDefault:"2s"`
	DiscoveryStaleAfter time.Duration `env:"DISCOVERY_STALE_AFTER" envDefault:"5s"`
	BroadcastAddr       string        `env:"BROADCAST_ADDR" envDefault:"255.255.255.255"`

	Transport     string        `env:"TRANSPORT" envDefault:"tcp"`
	PlacementRule string        `env:"PLACEMENT_RULE" envDefault:"overlap"`
	WriteTimeout  time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`

	DatabaseUrl  string `env:"DATABASE_URL"`
	OtelEndpoint string `env:"OTEL_ENDPOINT"`
	FleetFile    string `env:"FLEET_FILE"`

	// Set from flags only.
	Host     bool
	Join     string
	Discover bool

	Rule mb.PlacementRule
}

// LoadDotEnv reads .env outside production. A missing file is not an error.
func LoadDotEnv(path string) error {
	if os.Getenv("STAGE") == StageProd {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Parse reads the environment, then lets flags in args override it.
func Parse(fset *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fset.BoolVar(&cfg.Host, "host", false, "Listen for an opponent and announce the match on the LAN")
	fset.StringVar(&cfg.Join, "join", "", "Connect to the opponent at host:port")
	fset.BoolVar(&cfg.Discover, "discover", false, "List announced matches and exit")
	fset.StringVar(&cfg.PlayerName, "name", cfg.PlayerName, "Name announced to other players")
	fset.StringVar(&cfg.Transport, "transport", cfg.Transport, "Match transport: tcp or ws")
	fset.IntVar(&cfg.MatchPort, "port", cfg.MatchPort, "Match port")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Stage != StageProd && c.Stage != StageDev {
		return fmt.Errorf("invalid type of development stage: %s", c.Stage)
	}
	if c.Transport != mc.TransportTCP && c.Transport != mc.TransportWs {
		return fmt.Errorf("invalid transport: %s", c.Transport)
	}
	if c.Host && c.Join != "" {
		return errors.New("-host and -join are mutually exclusive")
	}

	rule, err := mb.ParsePlacementRule(c.PlacementRule)
	if err != nil {
		return err
	}
	c.Rule = rule
	return nil
}

func (c Config) MatchAddr() string {
	return fmt.Sprintf(":%d", c.MatchPort)
}
