package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu       sync.Mutex
	times    map[string]time.Time
	cooldown time.Duration
}

func newIPRateLimiter(cooldown time.Duration) *ipRateLimiter {
	rl := &ipRateLimiter{times: make(map[string]time.Time), cooldown: cooldown}
	// Cleanup stale entries every 60s
	go func() {
		for range time.Tick(60 * time.Second) {
			rl.mu.Lock()
			cutoff := time.Now().Add(-rl.cooldown)
			for ip, t := range rl.times {
				if t.Before(cutoff) {
					delete(rl.times, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if last, ok := rl.times[ip]; ok {
		if time.Since(last) < rl.cooldown {
			return false
		}
	}
	rl.times[ip] = time.Now()
	return true
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Enable per-message deflate compression (RFC 7692)
	EnableCompression: true,
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, msg string) {
	data, _ := json.Marshal(ErrorMsg{Type: MsgError, Message: msg})
	ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.TextMessage, data)
	ws.Close()
}

// buildWSHandler returns the WebSocket endpoint: upgrade, admission
// checks, then the blocking per-connection read loop.
func buildWSHandler(cfg *Config, reg *Registry, conns *ConnManager, rl *ipRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract client IP (handle X-Forwarded-For for reverse proxies)
		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("ws upgrade error: %v", err)
			return
		}

		// Check limits after upgrade so the client can receive error messages
		if conns.Count() >= cfg.MaxPlayers {
			sendErrorAndClose(ws, "Server full. Please try again later.")
			return
		}
		if !rl.allow(ip) {
			sendErrorAndClose(ws, "Too many connections. Please wait and retry.")
			return
		}

		// Enable per-message write compression
		ws.EnableWriteCompression(true)

		conn := NewConn(ws)
		conns.Add(conn)
		log.WithFields(log.Fields{"conn": conn.ID, "ip": ip}).Info("client connected")

		// Blocking read loop — runs until the client disconnects
		conn.ReadLoop(reg, conns)
	}
}

func initLogging() {
	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func main() {
	initLogging()
	cfg := LoadConfig()

	reg := NewRegistry(cfg)
	conns := NewConnManager()
	rateLimiter := newIPRateLimiter(time.Duration(cfg.IPCooldownSec) * time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.WebSocketPath, buildWSHandler(cfg, reg, conns, rateLimiter))

	// Serve static client files
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	// Start all room loops
	reg.Start()

	srv := &http.Server{Addr: cfg.Port, Handler: mux}
	go func() {
		log.Infof("server listening on %s (world size %.0f, tick %s)", cfg.Port, cfg.WorldSize, cfg.TickInterval)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	reg.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}
