package api

import (
	"context"
	"errors"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/saeidalz13/battleship-p2p/internal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DiscoveryPrefix = "SERVER:"

	DefaultDiscoveryPort       = 8081
	DefaultDiscoveryInterval   = time.Second * 2
	DefaultDiscoveryStaleAfter = time.Second * 5
	discoveryCleanInterval     = time.Second * 3
	discoveryDatagramSize      = 512
	unknownServerName          = "unknown"
)

// ParseAnnouncement returns the announced name of a discovery datagram.
func ParseAnnouncement(datagram []byte) (string, bool) {
	msg := strings.TrimSpace(string(datagram))
	if !strings.HasPrefix(msg, "SERVER") {
		return "", false
	}

	_, name, found := strings.Cut(msg, ":")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return unknownServerName, true
	}
	return name, true
}

// Broadcaster announces a hosted match to the LAN until its context ends.
type Broadcaster struct {
	name     string
	target   string
	interval time.Duration
	logger   *zap.Logger
}

func NewBroadcaster(name, target string, interval time.Duration, logger *zap.Logger) *Broadcaster {
	if interval <= 0 {
		interval = DefaultDiscoveryInterval
	}
	return &Broadcaster{name: name, target: target, interval: interval, logger: logger}
}

func (b *Broadcaster) Run(ctx context.Context) error {
	raddr, err := net.ResolveUDPAddr("udp4", b.target)
	if err != nil {
		return err
	}
	conn, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	payload := []byte(DiscoveryPrefix + b.name)
	send := func() {
		if _, err := conn.Write(payload); err != nil {
			// A missing route must not stop the announcements.
			b.logger.Debug("announcement failed", zap.String("target", b.target), zap.Error(err))
		}
	}

	b.logger.Info("announcing match", zap.String("name", b.name), zap.String("target", b.target))
	send()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			send()
		}
	}
}

type ServerInfo struct {
	// Address is host:port of the match listener.
	Address  string
	Name     string
	LastSeen time.Time
}

// ServerRegistry keeps the matches heard on the LAN.
type ServerRegistry struct {
	mu         sync.Mutex
	servers    map[string]ServerInfo
	staleAfter time.Duration
	now        func() time.Time
}

func NewServerRegistry(staleAfter time.Duration) *ServerRegistry {
	if staleAfter <= 0 {
		staleAfter = DefaultDiscoveryStaleAfter
	}
	return &ServerRegistry{
		servers:    make(map[string]ServerInfo),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Seen records an announcement. It reports whether the server is new or
// changed its name.
func (r *ServerRegistry) Seen(address, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.servers[address]
	r.servers[address] = ServerInfo{Address: address, Name: name, LastSeen: r.now()}
	return !ok || prev.Name != name
}

// Prune drops servers silent for longer than the stale window and returns
// them.
func (r *ServerRegistry) Prune() []ServerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []ServerInfo
	now := r.now()
	for addr, info := range r.servers {
		if now.Sub(info.LastSeen) > r.staleAfter {
			delete(r.servers, addr)
			removed = append(removed, info)
		}
	}
	return removed
}

func (r *ServerRegistry) Servers() []ServerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	servers := make([]ServerInfo, 0, len(r.servers))
	for _, info := range r.servers {
		servers = append(servers, info)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].Address < servers[j].Address })
	return servers
}

// DiscoveryListener turns announcements received on a packet connection
// into registry entries.
type DiscoveryListener struct {
	conn      net.PacketConn
	matchPort int
	registry  *ServerRegistry
	logger    *zap.Logger

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter

	OnServerFound func(ServerInfo)
	OnServerLost  func(ServerInfo)
}

// ListenDiscovery binds the discovery port on all interfaces.
func ListenDiscovery(port, matchPort int, staleAfter time.Duration, logger *zap.Logger) (*DiscoveryListener, error) {
	conn, err := net.ListenPacket("udp4", ":"+strconv.Itoa(port))
	if err != nil {
		return nil, err
	}
	return NewDiscoveryListener(conn, matchPort, NewServerRegistry(staleAfter), logger), nil
}

func NewDiscoveryListener(conn net.PacketConn, matchPort int, registry *ServerRegistry, logger *zap.Logger) *DiscoveryListener {
	return &DiscoveryListener{
		conn:      conn,
		matchPort: matchPort,
		registry:  registry,
		logger:    logger,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (l *DiscoveryListener) Registry() *ServerRegistry { return l.registry }

func (l *DiscoveryListener) Addr() net.Addr { return l.conn.LocalAddr() }

// Run reads announcements until ctx is done. The connection is closed on
// return.
func (l *DiscoveryListener) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { l.conn.Close() })
	defer stop()
	defer l.conn.Close()

	var wg sync.WaitGroup
	cleanCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		wg.Wait()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		l.clean(cleanCtx)
	}()

	buf := make([]byte, discoveryDatagramSize)
	for {
		n, from, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			l.logger.Warn("discovery read failed", zap.Error(err))
			return err
		}

		name, ok := ParseAnnouncement(buf[:n])
		if !ok {
			continue
		}

		host := internal.HostOnly(from.String())
		if !l.limiter(host).Allow() {
			l.logger.Debug("announcement rate limited", zap.String("host", host))
			continue
		}

		info := ServerInfo{Address: net.JoinHostPort(host, strconv.Itoa(l.matchPort)), Name: name}
		if l.registry.Seen(info.Address, info.Name) {
			l.logger.Info("server found", zap.String("address", info.Address), zap.String("name", info.Name))
			if l.OnServerFound != nil {
				l.OnServerFound(info)
			}
		}
	}
}

func (l *DiscoveryListener) clean(ctx context.Context) {
	ticker := time.NewTicker(discoveryCleanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, info := range l.registry.Prune() {
				l.logger.Info("server lost", zap.String("address", info.Address))
				if l.OnServerLost != nil {
					l.OnServerLost(info)
				}
			}
		}
	}
}

func (l *DiscoveryListener) limiter(host string) *rate.Limiter {
	l.limitersMu.Lock()
	defer l.limitersMu.Unlock()

	limiter, ok := l.limiters[host]
	if !ok {
		// A host announcing every couple of seconds never hits this.
		limiter = rate.NewLimiter(2, 3)
		l.limiters[host] = limiter
	}
	return limiter
}
