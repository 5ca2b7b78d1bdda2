package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/saeidalz13/battleship-p2p/api"
	"github.com/saeidalz13/battleship-p2p/db"
	"github.com/saeidalz13/battleship-p2p/db/sqlc"
	"github.com/saeidalz13/battleship-p2p/internal"
	"github.com/saeidalz13/battleship-p2p/internal/config"
	"github.com/saeidalz13/battleship-p2p/internal/telemetry"
	"go.uber.org/zap"
)

const discoverFor = time.Second * 6

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalln(err)
	}
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalln(err)
	}

	logger, err := newLogger(cfg.Stage)
	if err != nil {
		log.Fatalln(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Discover {
		discover(ctx, cfg, logger)
		return
	}

	shutdown, err := telemetry.Setup(ctx, cfg.OtelEndpoint)
	if err != nil {
		logger.Fatal("tracing setup failed", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	ui := newTerminal(os.Stdout)
	opts := []api.Option{
		api.WithLogger(logger),
		api.WithObserver(ui),
		api.WithTransport(cfg.Transport),
		api.WithPlacementRule(cfg.Rule),
		api.WithMatchAddr(cfg.MatchAddr()),
		api.WithWriteTimeout(cfg.WriteTimeout),
	}

	if cfg.DatabaseUrl != "" {
		analytics, closeDb, err := connectAnalytics(cfg.DatabaseUrl, logger)
		if err != nil {
			// for now not killing the game for it
			logger.Warn("analytics disabled", zap.Error(err))
		} else {
			defer closeDb()
			opts = append(opts, analytics)
		}
	}

	peer := api.NewPeer(opts...)
	defer peer.Close()
	ui.peer = peer

	if cfg.FleetFile != "" {
		if err := placeFleetFromFile(peer, cfg.FleetFile); err != nil {
			logger.Warn("fleet file not applied", zap.String("path", cfg.FleetFile), zap.Error(err))
		}
	}

	switch {
	case cfg.Host:
		b := api.NewBroadcaster(
			cfg.PlayerName,
			net.JoinHostPort(cfg.BroadcastAddr, strconv.Itoa(cfg.DiscoveryPort)),
			cfg.DiscoveryInterval,
			logger,
		)
		announceCtx, stopAnnounce := context.WithCancel(ctx)
		go func() {
			if err := b.Run(announceCtx); err != nil {
				logger.Warn("announcements stopped", zap.Error(err))
			}
		}()

		ui.printf("waiting for an opponent on %s\n", cfg.MatchAddr())
		err := peer.Host(ctx)
		stopAnnounce()
		if err != nil {
			logger.Fatal("hosting failed", zap.Error(err))
		}

	case cfg.Join != "":
		joinCtx, cancel := context.WithTimeout(ctx, time.Second*10)
		err := peer.Join(joinCtx, cfg.Join)
		cancel()
		if err != nil {
			logger.Fatal("joining failed", zap.String("addr", cfg.Join), zap.Error(err))
		}

	default:
		ui.printf("nothing to do: use -host, -join host:port or -discover\n")
		return
	}

	ui.run(ctx, os.Stdin)
}

func newLogger(stage string) (*zap.Logger, error) {
	if stage == config.StageProd {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func connectAnalytics(psqlUrl string, logger *zap.Logger) (api.Option, func(), error) {
	ipNet, err := internal.LocalIpNet()
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.Connect(psqlUrl, db.DefaultMigrationDir, logger)
	if err != nil {
		return nil, nil, err
	}

	dbm := sqlc.NewPeerDbManager(conn)
	closeDb := func() {
		if err := conn.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}
	return api.WithAnalytics(dbm.Analytics, ipNet), closeDb, nil
}

func discover(ctx context.Context, cfg config.Config, logger *zap.Logger) {
	l, err := api.ListenDiscovery(cfg.DiscoveryPort, cfg.MatchPort, cfg.DiscoveryStaleAfter, logger)
	if err != nil {
		logger.Fatal("discovery failed", zap.Int("port", cfg.DiscoveryPort), zap.Error(err))
	}

	l.OnServerFound = func(info api.ServerInfo) {
		log.Printf("found %s at %s\n", info.Name, info.Address)
	}
	l.OnServerLost = func(info api.ServerInfo) {
		log.Printf("lost %s at %s\n", info.Name, info.Address)
	}

	ctx, cancel := context.WithTimeout(ctx, discoverFor)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		logger.Warn("discovery stopped", zap.Error(err))
	}

	for _, info := range l.Registry().Servers() {
		log.Printf("%s\t%s\n", info.Address, info.Name)
	}
}
