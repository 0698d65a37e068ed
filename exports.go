package mintgate

import "github.com/xraph/mintgate/types"

// Re-export common types for convenience so users don't have to import
// the types package.

// Amount is re-exported from the types package.
type Amount = types.Amount

// Entity is re-exported from the types package.
type Entity = types.Entity

// Re-export Amount constructors
var (
	Wei   = types.Wei
	Gwei  = types.Gwei
	Ether = types.Ether
	Zero  = types.Zero
	Sum   = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
