package providers

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/km-arc/chefling/framework/config"
	"github.com/km-arc/chefling/framework/container"
	"github.com/km-arc/chefling/framework/logging"
	"github.com/km-arc/chefling/framework/manifest"
)

// ── Framework Types ───────────────────────────────────────────────────────────

// ConfigType resolves to *config.Config. Without a mapping it loads ./.env.
var ConfigType = container.MustDefine("Config", func() *config.Config {
	return config.Load()
})

// LoggerType resolves to the application *log.Logger, built from ConfigType.
var LoggerType = container.MustDefine("Logger", func(cfg *config.Config) (*log.Logger, error) {
	return logging.New(cfg.Log, os.Stderr)
}, container.Needs(container.Ref(ConfigType)))

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider maps the application configuration into the
// container.
//
// Mapped Types:
//   - ConfigType → *config.Config (instance)
//
// When Config is nil the configuration is loaded from EnvFiles.
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Load(p.EnvFiles...)
	}
	return app.MapInstance(ConfigType, cfg)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider maps the application logger and, at boot, hands a
// derived logger to the container for resolution tracing.
//
// Mapped Types:
//   - LoggerType → *log.Logger (factory)
//
// Configuration read from ConfigType:
//   - Log.Level, Log.Format, Log.Prefix
//   - Container.Trace
type LoggingServiceProvider struct {
	container.BaseProvider
	Writer io.Writer // default: os.Stderr
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	w := p.Writer
	if w == nil {
		w = os.Stderr
	}

	return app.MapFactory(LoggerType, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, ConfigType)
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Log, w)
	})
}

func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, ConfigType)
	if err != nil {
		return err
	}
	logger, err := container.Resolve[*log.Logger](app, LoggerType)
	if err != nil {
		return err
	}
	app.SetLogger(logging.ForContainer(logger, cfg.Container))
	return nil
}

// ── ManifestServiceProvider ───────────────────────────────────────────────────

// ManifestServiceProvider applies a bindings manifest at boot.
//
// The manifest is taken from Manifest, else read from Path, else from the
// Container.Manifest config key. Nothing happens when none is set. Names are
// looked up in Registry.
type ManifestServiceProvider struct {
	container.BaseProvider
	Manifest *manifest.Manifest
	Path     string
	Registry *container.TypeRegistry
}

func (p *ManifestServiceProvider) Register(_ *container.Container) error {
	if p.Registry == nil {
		return fmt.Errorf("manifest provider: a type registry is required")
	}
	return nil
}

func (p *ManifestServiceProvider) Boot(app *container.Container) error {
	m, err := p.resolve(app)
	if err != nil || m == nil {
		return err
	}
	return m.Apply(app, p.Registry)
}

func (p *ManifestServiceProvider) resolve(app *container.Container) (*manifest.Manifest, error) {
	if p.Manifest != nil {
		return p.Manifest, nil
	}

	path := p.Path
	if path == "" {
		cfg, err := container.Resolve[*config.Config](app, ConfigType)
		if err != nil {
			return nil, err
		}
		path = cfg.Container.Manifest
	}
	if path == "" {
		return nil, nil
	}
	return manifest.Load(path)
}
