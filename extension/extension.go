// Package extension provides the Forge extension adapter for MintGate.
//
// It implements the forge.Extension interface to integrate MintGate
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.mintgate" or
// "mintgate" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/vessel"

	mintgate "github.com/xraph/mintgate"
	"github.com/xraph/mintgate/principal"
	"github.com/xraph/mintgate/registry"
	"github.com/xraph/mintgate/store"
	"github.com/xraph/mintgate/store/memory"
	"github.com/xraph/mintgate/store/mongo"
	"github.com/xraph/mintgate/store/postgres"
	"github.com/xraph/mintgate/store/sqlite"
	"github.com/xraph/mintgate/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "mintgate"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Voucher-gated mint authorization engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts MintGate as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config   Config
	engine   *mintgate.Gate
	store    store.Store
	groveDB  *grove.DB
	tokens   registry.TokenRegistry
	admins   principal.Registry
	gateOpts []mintgate.Option
}

// New creates a new MintGate Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Gate instance.
// This is nil until Register is called.
func (e *Extension) Engine() *mintgate.Gate { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the gate engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if err := e.resolveStore(); err != nil {
		return err
	}

	gateCfg, err := e.buildGateConfig()
	if err != nil {
		return err
	}

	// The token registry is the integration point with whatever actually
	// issues tokens; default to the in-memory collection.
	if e.tokens == nil {
		e.tokens = registry.NewCollection(gateCfg.Name, gateCfg.Symbol)
	}
	if e.admins == nil {
		e.admins = principal.NewStatic()
	}

	eng, err := mintgate.New(gateCfg, e.store, e.tokens, e.admins, e.gateOpts...)
	if err != nil {
		return err
	}
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*mintgate.Gate, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("mintgate: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("mintgate: store not initialized")
	}
	return e.store.Ping(ctx)
}

// resolveStore picks the store backend: an explicit WithStore wins, then a
// grove.DB with a configured driver, then the in-memory store.
func (e *Extension) resolveStore() error {
	if e.store != nil {
		return nil
	}

	if e.groveDB != nil {
		switch e.config.GroveDriver {
		case "postgres":
			e.store = postgres.New(e.groveDB)
		case "sqlite":
			e.store = sqlite.New(e.groveDB)
		case "mongo":
			e.store = mongo.New(e.groveDB)
		case "":
			return errors.New("mintgate: grove database provided but grove_driver is not set")
		default:
			return fmt.Errorf("mintgate: unknown grove_driver %q", e.config.GroveDriver)
		}
		return nil
	}

	e.store = memory.New()
	return nil
}

// buildGateConfig converts the extension config into a mintgate.Config.
func (e *Extension) buildGateConfig() (mintgate.Config, error) {
	price, err := types.Parse(e.config.PriceWei)
	if err != nil {
		return mintgate.Config{}, fmt.Errorf("mintgate: invalid price_wei: %w", err)
	}

	var authority common.Address
	if e.config.AuthorityKey != "" {
		if !common.IsHexAddress(e.config.AuthorityKey) {
			return mintgate.Config{}, fmt.Errorf("mintgate: invalid authority_key %q", e.config.AuthorityKey)
		}
		authority = common.HexToAddress(e.config.AuthorityKey)
	}

	return mintgate.Config{
		Name:         e.config.Name,
		Symbol:       e.config.Symbol,
		BaseURI:      e.config.BaseURI,
		MaxSupply:    e.config.MaxSupply,
		Price:        price,
		AuthorityKey: authority,
		SaleActive:   e.config.SaleActive,
	}, nil
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("mintgate: configuration is required but not found in config files; " +
				"ensure 'extensions.mintgate' or 'mintgate' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("mintgate: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("base_path", e.config.BasePath),
		forge.F("name", e.config.Name),
		forge.F("max_supply", e.config.MaxSupply),
		forge.F("grove_driver", e.config.GroveDriver),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.mintgate" first (namespaced pattern).
	if cm.IsSet("extensions.mintgate") {
		if err := cm.Bind("extensions.mintgate", &cfg); err == nil {
			e.Logger().Debug("mintgate: loaded config from file",
				forge.F("key", "extensions.mintgate"),
			)
			return cfg, true
		}
		e.Logger().Warn("mintgate: failed to bind extensions.mintgate config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "mintgate" key.
	if cm.IsSet("mintgate") {
		if err := cm.Bind("mintgate", &cfg); err == nil {
			e.Logger().Debug("mintgate: loaded config from file",
				forge.F("key", "mintgate"),
			)
			return cfg, true
		}
		e.Logger().Warn("mintgate: failed to bind mintgate config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.BasePath == "" {
		cfg.BasePath = defaults.BasePath
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.SaleActive {
		yamlConfig.SaleActive = true
	}

	// String fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.BasePath == "" && programmaticConfig.BasePath != "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}
	if yamlConfig.Name == "" && programmaticConfig.Name != "" {
		yamlConfig.Name = programmaticConfig.Name
	}
	if yamlConfig.Symbol == "" && programmaticConfig.Symbol != "" {
		yamlConfig.Symbol = programmaticConfig.Symbol
	}
	if yamlConfig.BaseURI == "" && programmaticConfig.BaseURI != "" {
		yamlConfig.BaseURI = programmaticConfig.BaseURI
	}
	if yamlConfig.PriceWei == "" && programmaticConfig.PriceWei != "" {
		yamlConfig.PriceWei = programmaticConfig.PriceWei
	}
	if yamlConfig.AuthorityKey == "" && programmaticConfig.AuthorityKey != "" {
		yamlConfig.AuthorityKey = programmaticConfig.AuthorityKey
	}
	if yamlConfig.GroveDriver == "" && programmaticConfig.GroveDriver != "" {
		yamlConfig.GroveDriver = programmaticConfig.GroveDriver
	}

	// Numeric fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.MaxSupply == 0 && programmaticConfig.MaxSupply != 0 {
		yamlConfig.MaxSupply = programmaticConfig.MaxSupply
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
