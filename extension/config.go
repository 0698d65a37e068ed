package extension

// Config holds the MintGate extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.mintgate" or "mintgate" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for mintgate routes (default: "/mintgate").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// Name is the collection name.
	Name string `json:"name" mapstructure:"name" yaml:"name"`

	// Symbol is the collection symbol.
	Symbol string `json:"symbol" mapstructure:"symbol" yaml:"symbol"`

	// BaseURI is the initial metadata base pointer.
	BaseURI string `json:"base_uri" mapstructure:"base_uri" yaml:"base_uri"`

	// MaxSupply is the immutable global supply ceiling.
	MaxSupply uint64 `json:"max_supply" mapstructure:"max_supply" yaml:"max_supply"`

	// PriceWei is the initial unit price as a decimal wei string.
	PriceWei string `json:"price_wei" mapstructure:"price_wei" yaml:"price_wei"`

	// AuthorityKey is the initial voucher authority address in hex.
	AuthorityKey string `json:"authority_key" mapstructure:"authority_key" yaml:"authority_key"`

	// SaleActive sets the initial sale state on first start. Restarts keep
	// the persisted state.
	SaleActive bool `json:"sale_active" mapstructure:"sale_active" yaml:"sale_active"`

	// GroveDriver selects the store backend built from the grove.DB
	// provided via WithGroveDB: "postgres", "sqlite" or "mongo".
	// Empty means the in-memory store (or whatever WithStore set).
	GroveDriver string `json:"grove_driver" mapstructure:"grove_driver" yaml:"grove_driver"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BasePath: "/mintgate",
	}
}
