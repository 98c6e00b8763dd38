package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/primeload/config"
	"github.com/jonwraymond/primeload/dispatch"
	"github.com/jonwraymond/primeload/gauge"
	"github.com/jonwraymond/primeload/health"
	"github.com/jonwraymond/primeload/observe"
	"github.com/jonwraymond/primeload/prime"
	"github.com/jonwraymond/primeload/resilience"
	"github.com/jonwraymond/primeload/workpool"
)

// sentryFlushTimeout bounds how long shutdown waits for queued events.
const sentryFlushTimeout = 2 * time.Second

// ProcessName identifies this process in log lines.
func ProcessName() string {
	return fmt.Sprintf("primeload:%d", os.Getpid())
}

type options struct {
	observer observe.Observer
	sampler  gauge.Sampler
	source   prime.Source
	stdout   io.Writer
}

// Option configures an App.
type Option func(*options)

// WithObserver uses obs instead of building one from the configuration.
// The App does not shut it down.
func WithObserver(obs observe.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithSampler replaces the host CPU sampler behind the cpu.usage gauge.
func WithSampler(s gauge.Sampler) Option {
	return func(o *options) { o.sampler = s }
}

// WithSource replaces the random source used to draw sieve ceilings.
func WithSource(src prime.Source) Option {
	return func(o *options) { o.source = src }
}

// WithStdout redirects the startup port announcement. Default: os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// App is the assembled server.
type App struct {
	cfg      *config.Config
	observer observe.Observer
	logger   observe.Logger
	pool     *workpool.Pool
	resource *PrimeResource
	registry *health.Registry
	cpu      *gauge.CPUGauge
	bulkhead *resilience.Bulkhead
	handler  http.Handler
	admin    http.Handler
	stdout   io.Writer

	lifecycle lifecycle
}

// New assembles an App from cfg. Nothing listens until Run or Serve.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{stdout: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, stdout: o.stdout}

	if o.observer != nil {
		a.observer = o.observer
	} else {
		obs, err := observe.NewObserver(ctx, cfg.ObserveConfig())
		if err != nil {
			return nil, fmt.Errorf("server: observer: %w", err)
		}
		a.observer = obs
		a.Manage(Hooks{Name: "observer", OnStop: obs.Shutdown})
	}
	a.logger = a.observer.Logger().With(observe.Field{Key: "process", Value: ProcessName()})

	mw, err := observe.MiddlewareFromObserver(a.observer)
	if err != nil {
		_ = a.lifecycle.stopAll(ctx)
		return nil, fmt.Errorf("server: middleware: %w", err)
	}
	if err := a.setupSentry(); err != nil {
		_ = a.lifecycle.stopAll(ctx)
		return nil, err
	}

	a.pool = workpool.New(cfg.PoolConfig())
	a.Manage(Hooks{Name: "worker pool", OnStop: a.pool.Shutdown})

	pipeline := prime.NewPipeline(o.source, nil)
	dispatcher := dispatch.NewDispatcher(pipeline, a.pool, a.logger)
	a.resource = NewPrimeResource(dispatcher, a.logger)

	a.cpu = gauge.NewCPUGauge(cfg.CPUGauge.TTL.Std(), o.sampler)
	a.Manage(a.gaugeHooks())

	a.registry = health.NewRegistry(0)
	a.registry.Register("prime", health.NewStatusChecker(a.resource.Probe()))

	a.handler = a.applicationHandler(mw)
	a.admin = a.adminHandler()

	return a, nil
}

// Manage registers m with the App lifecycle.
func (a *App) Manage(m Managed) {
	a.lifecycle.add(m)
}

// Handler returns the application handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// AdminHandler returns the admin handler.
func (a *App) AdminHandler() http.Handler {
	return a.admin
}

// Health returns the health registry.
func (a *App) Health() *health.Registry {
	return a.registry
}

// Logger returns the process logger.
func (a *App) Logger() observe.Logger {
	return a.logger
}

// Pool returns the shared worker pool.
func (a *App) Pool() *workpool.Pool {
	return a.pool
}

func (a *App) setupSentry() error {
	s := a.cfg.Sentry
	if s.DSN == "" {
		return nil
	}
	if err := sentry.Init(sentryOptions(s.DSN, s.Environment, a.cfg.Observe.Version, s.Debug)); err != nil {
		return fmt.Errorf("server: sentry: %w", err)
	}
	a.Manage(Hooks{Name: "sentry", OnStop: func(context.Context) error {
		if !sentry.Flush(sentryFlushTimeout) {
			a.logger.Warn(context.Background(), "sentry flush timed out")
		}
		return nil
	}})
	a.logger.Info(context.Background(), "error reporting enabled",
		observe.Field{Key: "dsn", Value: s.DSN},
		observe.Field{Key: "environment", Value: s.Environment},
	)
	return nil
}

func (a *App) gaugeHooks() Hooks {
	var reg metric.Registration
	return Hooks{
		Name: "cpu gauge",
		OnStart: func(context.Context) error {
			r, err := observe.RegisterGauge(a.observer.Meter(), observe.GaugeOptions{
				Name:        "cpu.usage",
				Description: "System CPU load as a percentage",
				Unit:        "%",
			}, a.cpu.Int64)
			if err != nil {
				return err
			}
			reg = r
			return nil
		},
		OnStop: func(context.Context) error {
			if reg == nil {
				return nil
			}
			return reg.Unregister()
		},
	}
}

func (a *App) applicationHandler(mw *observe.Middleware) http.Handler {
	mux := http.NewServeMux()
	a.resource.Register(mux, mw)

	var h http.Handler = mux
	if a.cfg.Throttling.Enabled {
		a.bulkhead = resilience.NewBulkhead(a.cfg.BulkheadConfig())
		h = resilience.Throttle(a.bulkhead, h)
	}
	return recoverer(a.logger, withSentry(h))
}

func (a *App) adminHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ping", health.PingHandler())
	mux.Handle("GET /healthcheck", health.HealthcheckHandler(a.registry))
	if h := a.observer.MetricsHandler(); h != nil {
		mux.Handle("GET /metrics", h)
	}
	mux.HandleFunc("GET /threads", threadDump)
	return recoverer(a.logger, mux)
}

// threadDump writes the stacks of all goroutines.
func threadDump(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "must-revalidate,no-cache,no-store")
	_ = pprof.Lookup("goroutine").WriteTo(w, 1)
}

// Run listens on the configured addresses and serves until ctx ends.
func (a *App) Run(ctx context.Context) error {
	appLn, err := net.Listen("tcp", a.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", a.cfg.Server.Address, err)
	}
	adminLn, err := net.Listen("tcp", a.cfg.Server.AdminAddress)
	if err != nil {
		_ = appLn.Close()
		return fmt.Errorf("server: listen %s: %w", a.cfg.Server.AdminAddress, err)
	}
	return a.Serve(ctx, appLn, adminLn)
}

// Serve starts the managed components, serves both listeners until ctx ends
// or a listener fails, then drains and stops everything.
func (a *App) Serve(ctx context.Context, appLn, adminLn net.Listener) error {
	if err := a.lifecycle.start(ctx); err != nil {
		_ = appLn.Close()
		_ = adminLn.Close()
		return err
	}

	appSrv := &http.Server{Handler: a.handler, ReadHeaderTimeout: 10 * time.Second}
	adminSrv := &http.Server{Handler: a.admin, ReadHeaderTimeout: 10 * time.Second}

	a.announce(appLn.Addr(), adminLn.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(appSrv, appLn) })
	g.Go(func() error { return serve(adminSrv, adminLn) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := a.shutdownContext(ctx)
		defer cancel()
		a.logger.Info(sctx, "shutting down")
		return errors.Join(appSrv.Shutdown(sctx), adminSrv.Shutdown(sctx))
	})
	err := g.Wait()

	sctx, cancel := a.shutdownContext(ctx)
	defer cancel()
	return errors.Join(err, a.lifecycle.stop(sctx))
}

func (a *App) shutdownContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout.Std())
}

func serve(srv *http.Server, ln net.Listener) error {
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// announce logs the bound ports and prints the application port so a load
// driver can discover it.
func (a *App) announce(appAddr, adminAddr net.Addr) {
	port := 0
	if tcp, ok := appAddr.(*net.TCPAddr); ok {
		port = tcp.Port
	}
	a.logger.Info(context.Background(), "server started",
		observe.Field{Key: "port", Value: port},
		observe.Field{Key: "admin", Value: adminAddr.String()},
	)
	fmt.Fprintf(a.stdout, "\nPORT:%d\n", port)
}
