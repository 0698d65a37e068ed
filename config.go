package mintgate

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintgate/types"
)

// Config is the construction-time configuration for a Gate.
//
// MaxSupply is immutable once the gate is built. Price, AuthorityKey,
// BaseURI and SaleActive only seed the persisted settings on first start;
// after that the stored values win and admins change them through the
// gate, so restarts never clobber admin changes.
type Config struct {
	// Name is the collection name.
	Name string `env:"MINTGATE_NAME"`

	// Symbol is the collection symbol.
	Symbol string `env:"MINTGATE_SYMBOL"`

	// BaseURI is the metadata base pointer; token metadata resolves to
	// BaseURI + token id.
	BaseURI string `env:"MINTGATE_BASE_URI"`

	// MaxSupply is the global supply ceiling. Must be positive.
	MaxSupply uint64 `env:"MINTGATE_MAX_SUPPLY"`

	// Price is the initial unit price in wei.
	Price types.Amount `env:"MINTGATE_PRICE_WEI"`

	// AuthorityKey is the address trusted to sign vouchers. May be left
	// zero at construction and rotated in before the sale opens; no
	// voucher verifies against the zero key.
	AuthorityKey common.Address `env:"MINTGATE_AUTHORITY_KEY"`

	// SaleActive is the initial sale lifecycle state. The zero value
	// starts the sale paused: an operator must opt in to opening the
	// sale at construction or explicitly unpause later. Deployments
	// around this kind of gate have disagreed on the default; making the
	// initial state explicit removes the ambiguity.
	SaleActive bool `env:"MINTGATE_SALE_ACTIVE"`
}

// Validate checks the configuration for construction-time errors.
func (c Config) Validate() error {
	if c.MaxSupply == 0 {
		return ValidationError{Field: "max_supply", Message: "must be positive"}
	}
	if c.Name == "" {
		return ValidationError{Field: "name", Message: "must not be empty"}
	}
	if c.Symbol == "" {
		return ValidationError{Field: "symbol", Message: "must not be empty"}
	}
	return nil
}

// ConfigFromEnv loads configuration from MINTGATE_* environment variables
// and validates it.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("mintgate: parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
