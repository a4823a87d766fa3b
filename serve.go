package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/egyptian-spider/api"
	"github.com/wricardo/egyptian-spider/transport/mcp"
	"github.com/wricardo/egyptian-spider/transport/websocket"
)

func serveCommand() *cli.Command {
	flags := append(storageFlags(),
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "static-dir",
			Usage:   "serve a browser client from this directory",
			Sources: cli.EnvVars("STATIC_DIR"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "expose the server through an ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	)

	return &cli.Command{
		Name:   "serve",
		Usage:  "run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags:  flags,
		Action: runServe,
	}
}

// newHandler mounts the REST API and the streamable MCP endpoint
func newHandler(svcs *services, hub *websocket.Hub, baseURL, staticDir string) http.Handler {
	opts := []api.Option{api.WithLogger(svcs.logger.Named("api"))}
	if staticDir != "" {
		opts = append(opts, api.WithStaticDir(staticDir))
	}
	apiServer := api.NewServer(svcs.game, hub, opts...)

	mcpClient := mcp.NewClient(baseURL)
	mcpHandler := server.NewStreamableHTTPServer(mcpClient.GetMCPServer(),
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
	)

	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.Handle("/mcp", mcpHandler)
	return mux
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	logger, err := loggerFor(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	svcs, err := initializeServices(ctx, cmd, logger)
	if err != nil {
		return err
	}
	defer svcs.Close()

	hub := websocket.NewHub(logger.Named("ws"))
	go hub.Run()
	defer hub.Stop()
	svcs.sessions.OnChange(hub.BroadcastView)

	addr := net.JoinHostPort(cmd.String("host"), fmt.Sprint(cmd.Int("port")))
	handler := newHandler(svcs, hub, "http://"+addr, cmd.String("static-dir"))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		svcs.maintain(ctx, cmd.Duration("session-ttl"), 5*time.Second)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("http server listening",
			zap.String("api", "http://"+addr+"/api"),
			zap.String("ws", "ws://"+addr+"/ws?session=<id>"),
			zap.String("mcp", "http://"+addr+"/mcp"),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runNgrok(ctx, cmd, handler, logger.Named("ngrok")); err != nil {
				logger.Error("ngrok tunnel failed", zap.Error(err))
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errs:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, cmd *cli.Command, handler http.Handler, logger *zap.Logger) error {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return nil
	}

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		return fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}

	url := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", url),
		zap.String("api", url+"/api"),
		zap.String("mcp", url+"/mcp"),
	)

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
		tun.Close()
	}()

	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func mcpCommand() *cli.Command {
	flags := append(storageFlags(),
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "REST API to proxy to; empty probes localhost:8080 and falls back to an internal server",
			Sources: cli.EnvVars("API_URL"),
		},
	)

	return &cli.Command{
		Name:   "mcp",
		Usage:  "run an MCP server over stdio",
		Flags:  flags,
		Action: runStdioMCP,
	}
}

const externalAPI = "http://localhost:8080"

// apiAvailable reports whether a REST API answers its health check
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

// runStdioMCP serves MCP over stdio. Logs go to stderr so stdout carries
// only protocol messages.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	logger, err := loggerFor(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	baseURL := cmd.String("api-url")
	if baseURL == "" && apiAvailable(ctx, externalAPI) {
		baseURL = externalAPI
	}

	if baseURL == "" {
		svcs, err := initializeServices(ctx, cmd, logger)
		if err != nil {
			return err
		}
		defer svcs.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		internal := &http.Server{Handler: api.NewServer(svcs.game, nil, api.WithLogger(logger.Named("api")))}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal http server failed", zap.Error(err))
			}
		}()
		defer internal.Close()

		logger.Info("using internal API server", zap.String("url", baseURL))
	} else {
		logger.Info("using external API server", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer(), server.WithErrorLogger(zap.NewStdLog(logger))); err != nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}
