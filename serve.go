package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/mazerunner/api"
	"github.com/wricardo/mcp-training/mazerunner/game/service"
	"github.com/wricardo/mcp-training/mazerunner/transport/mcp"
	"github.com/wricardo/mcp-training/mazerunner/transport/websocket"
)

const (
	externalAPI     = "http://localhost:8080"
	shutdownTimeout = 10 * time.Second
)

// mcpHandler answers one JSON-RPC message per POST
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(mcpServer.HandleMessage(r.Context(), body)); err != nil {
			log.WithError(err).Warn("failed to write MCP response")
		}
	}
}

// newRouter mounts the API and websocket at the root and the MCP tools at
// /mcp. The tools call back into the API at baseURL.
func newRouter(gameService service.GameService, hub *websocket.Hub, baseURL string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(gameService, hub))
	mux.HandleFunc("/mcp", mcpHandler(mcp.NewClient(baseURL).GetMCPServer()))
	return mux
}

// runHTTPServer serves until SIGINT or SIGTERM, optionally mirroring the
// router through ngrok
func runHTTPServer(ctx context.Context, cfg settings, gameService service.GameService) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	addr := cfg.addr()
	router := newRouter(gameService, hub, "http://"+addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{
			"api":       "http://" + addr + "/api",
			"websocket": "ws://" + addr + "/ws?session=<id>",
			"mcp":       "http://" + addr + "/mcp",
		}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})
	if cfg.Ngrok {
		g.Go(func() error {
			runNgrokTunnel(ctx, cfg, router)
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	log.Info("Server stopped")
	return err
}

// runNgrokTunnel serves handler on a public ngrok URL until ctx is done.
// Tunnel failures are logged; the local server keeps running.
func runNgrokTunnel(ctx context.Context, cfg settings, handler http.Handler) {
	if cfg.NgrokToken == "" {
		log.Warn("ngrok enabled but no auth token (--ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var opts []ngrokConfig.HTTPEndpointOption
	if cfg.NgrokDomain != "" {
		opts = append(opts, ngrokConfig.WithDomain(cfg.NgrokDomain))
	}

	tun, err := ngrok.Listen(ctx, ngrokConfig.HTTPEndpoint(opts...), ngrok.WithAuthtoken(cfg.NgrokToken))
	if err != nil {
		log.WithError(err).Error("failed to start ngrok tunnel")
		return
	}

	public := tun.URL()
	log.WithFields(log.Fields{
		"api":       public + "/api",
		"websocket": public + "/ws?session=<id>",
		"mcp":       public + "/mcp",
	}).Info("ngrok tunnel established")

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("ngrok tunnel stopped")
	}
}

// apiAvailable reports whether a Maze Runner API answers at baseURL
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the API on a random loopback port and returns its base URL
func startInternalAPI(gameService service.GameService) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to open loopback listener: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	srv := &http.Server{Handler: api.NewServer(gameService, hub)}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("internal API server failed")
		}
	}()
	return "http://" + listener.Addr().String(), nil
}

// runStdioMCP serves the MCP tools on stdin/stdout. It reuses an API already
// running on localhost:8080 so both share sessions, and starts its own
// otherwise.
func runStdioMCP(ctx context.Context, gameService service.GameService) error {
	baseURL := externalAPI
	if !apiAvailable(ctx, baseURL) {
		var err error
		if baseURL, err = startInternalAPI(gameService); err != nil {
			return err
		}
		log.WithField("api", baseURL).Info("No API on localhost:8080, started an internal one")
	}

	log.WithField("api", baseURL).Info("MCP stdio server ready")
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}
