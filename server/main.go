package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"arena-server/config"
	"arena-server/telemetry"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	times    map[string]time.Time
}

func newIPRateLimiter(cooldown time.Duration) *ipRateLimiter {
	return &ipRateLimiter{cooldown: cooldown, times: make(map[string]time.Time)}
}

// sweep drops stale entries every minute until ctx is cancelled
func (rl *ipRateLimiter) sweep(ctx context.Context) {
	t := time.NewTicker(60 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			rl.mu.Lock()
			cutoff := now.Add(-rl.cooldown)
			for ip, last := range rl.times {
				if last.Before(cutoff) {
					delete(rl.times, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if last, ok := rl.times[ip]; ok && now.Sub(last) < rl.cooldown {
		return false
	}
	rl.times[ip] = now
	return true
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

// clientIP prefers the first X-Forwarded-For hop for reverse proxies
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, codec Codec, msg string) {
	if frame, data, err := codec.Encode(ErrorMsg{Type: MsgError, Message: msg}); err == nil {
		_ = ws.WriteMessage(frame, data)
	}
	ws.Close()
}

// wsHandler upgrades a request, gives it a fresh session and blocks in its read loop
func wsHandler(cfg *config.Config, conns *ConnManager, loop *GameLoop, rl *ipRateLimiter) http.HandlerFunc {
	codec := Codec(cfg.Server.Codec)
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("ws upgrade error", "error", err)
			return
		}

		// Check limits after upgrade so client can receive error messages
		if conns.Count() >= cfg.Server.MaxConns {
			sendErrorAndClose(ws, codec, "Server full. Please try again later.")
			return
		}
		if !rl.allow(ip, time.Now()) {
			sendErrorAndClose(ws, codec, fmt.Sprintf("Too many connections. Please wait %d seconds.", cfg.Server.IPCooldownSec))
			return
		}

		session, err := loop.NewSession()
		if err != nil {
			slog.Error("failed to create session", "error", err)
			sendErrorAndClose(ws, codec, "Server error.")
			return
		}

		ws.EnableWriteCompression(true)

		conn := NewConn(ws, codec, session)
		conns.Add(conn)
		slog.Info("player connected", "conn", conn.ID, "ip", ip)

		_ = conn.Send(session.Welcome(conn.ID))

		onDisconnect := func(c *Conn) {
			conns.Remove(c.ID)
			slog.Info("player disconnected", "conn", c.ID)
		}

		// Blocking read loop, runs until client disconnects
		conn.ReadLoop(onDisconnect)
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config file (default: embedded defaults)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	outputDir := flag.String("output-dir", "", "Directory for CSV output (overrides config)")
	seed := flag.Int64("seed", 0, "World seed, 0 for time-based (overrides config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("ARENA_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if env := os.Getenv("ARENA_STATIC_DIR"); env != "" {
		cfg.Server.StaticDir = env
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conns := NewConnManager()
	loop := NewGameLoop(cfg, conns, out)
	rl := newIPRateLimiter(time.Duration(cfg.Server.IPCooldownSec) * time.Second)
	go rl.sweep(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Server.WSPath, wsHandler(cfg, conns, loop, rl))
	mux.Handle("/", http.FileServer(http.Dir(cfg.Server.StaticDir)))

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	go loop.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server listening",
		"addr", cfg.Server.Addr,
		"world", fmt.Sprintf("%.0fx%.0f", cfg.World.Width, cfg.World.Height),
		"codec", cfg.Server.Codec,
		"output", out.Dir(),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
