package extension

import (
	"github.com/xraph/grove"

	mintgate "github.com/xraph/mintgate"
	"github.com/xraph/mintgate/plugin"
	"github.com/xraph/mintgate/principal"
	"github.com/xraph/mintgate/registry"
	"github.com/xraph/mintgate/store"
)

// Option configures the MintGate Forge extension.
type Option func(*Extension)

// WithStore sets the store for the gate engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGroveDB provides a grove.DB to build the store from. The backend is
// selected by the grove_driver config key ("postgres", "sqlite" or "mongo").
func WithGroveDB(db *grove.DB) Option {
	return func(e *Extension) {
		e.groveDB = db
	}
}

// WithTokenRegistry sets the token registry the gate issues against.
// Defaults to the in-memory collection.
func WithTokenRegistry(r registry.TokenRegistry) Option {
	return func(e *Extension) {
		e.tokens = r
	}
}

// WithAdmins sets the principal registry that gates the admin surface.
func WithAdmins(r principal.Registry) Option {
	return func(e *Extension) {
		e.admins = r
	}
}

// WithGateOption passes a mintgate.Option through to the underlying engine.
func WithGateOption(opt mintgate.Option) Option {
	return func(e *Extension) {
		e.gateOpts = append(e.gateOpts, opt)
	}
}

// WithPlugin registers a gate plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.gateOpts = append(e.gateOpts, mintgate.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableRoutes prevents HTTP route registration.
func WithDisableRoutes() Option {
	return func(e *Extension) { e.config.DisableRoutes = true }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithBasePath sets the URL prefix for mintgate routes.
func WithBasePath(path string) Option {
	return func(e *Extension) { e.config.BasePath = path }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
