package audithook

// Action constants for audit events.
const (
	// Mint actions
	ActionMintAccepted = "mint.accepted"
	ActionMintRejected = "mint.rejected"

	// Quota and supply actions
	ActionQuotaExceeded   = "quota.exceeded"
	ActionSupplyExhausted = "supply.exhausted"

	// Sale actions
	ActionSaleStateChanged = "sale.state_changed"
	ActionPriceChanged     = "price.changed"

	// Authority actions
	ActionAuthorityRotated = "authority.rotated"
	ActionBaseURIChanged   = "base_uri.changed"

	// Treasury actions
	ActionWithdrawal = "treasury.withdrawal"
)

// Resource constants for audit events.
const (
	ResourceMint      = "mint"
	ResourceQuota     = "quota"
	ResourceSale      = "sale"
	ResourceAuthority = "authority"
	ResourceTreasury  = "treasury"
)

// Category constants for audit events.
const (
	CategoryMinting = "minting"
	CategoryAccess  = "access"
	CategoryAdmin   = "admin"
	CategoryPayment = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
