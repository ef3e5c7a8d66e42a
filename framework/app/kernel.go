package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/km-arc/chefling/framework/config"
	"github.com/km-arc/chefling/framework/container"
	"github.com/km-arc/chefling/framework/providers"
)

// version is the framework version reported by Application.Version.
const version = "0.1.0"

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Get(), app.MapType(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// Option configures an Application in New.
type Option func(*options)

type options struct {
	logWriter io.Writer
	container []container.Option
	providers []container.ServiceProvider
}

// WithLogWriter sets where the application logger writes. Default: os.Stderr.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithContainerOptions passes options through to container.New.
func WithContainerOptions(opts ...container.Option) Option {
	return func(o *options) { o.container = append(o.container, opts...) }
}

// WithProviders registers extra providers after the framework ones.
func WithProviders(ps ...container.ServiceProvider) Option {
	return func(o *options) { o.providers = append(o.providers, ps...) }
}

// New creates the application and registers the framework providers. A nil
// cfg loads the configuration from ./.env and the environment.
//
//	application, err := app.New(config.Load(".env"))
//	if err != nil { ... }
//	defer application.Shutdown()
func New(cfg *config.Config, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := container.New(o.container...)
	application := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Writer: o.logWriter},
	}
	for _, p := range append(core, o.providers...) {
		if err := application.Register(p); err != nil {
			return nil, err
		}
	}
	return application, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	if err := a.Providers.Register(provider); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return nil
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	if err := a.Providers.Boot(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	a.Logger().Debug("booted", "providers", len(a.Providers.Providers()))
	return nil
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, providers.ConfigType)
}

// Logger resolves the application *log.Logger from the container.
func (a *Application) Logger() *log.Logger {
	return container.MustResolve[*log.Logger](a.Container, providers.LoggerType)
}

// Shutdown evicts every resolved instance, running OnDestroy hooks, and
// leaves an empty container behind.
func (a *Application) Shutdown() {
	a.Logger().Debug("shutting down", "types", len(a.Types()))
	a.Reset()
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return version }
