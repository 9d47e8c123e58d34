package settings

// Storage keys
const (
	KeyPolicyMode          = "policy_mode"
	KeyAllowList           = "allow_list"
	KeyDenyList            = "deny_list"
	KeyDebug               = "debug"
	KeySimplificationLevel = "simplification_level"
	KeyAutoRun             = "auto_run"
	KeyCustomPrompts       = "custom_prompts"
	KeyOverlayGeometry     = "overlay_geometry"
	KeyOverlayCollapsed    = "overlay_collapsed"
	KeyFirstInstall        = "first_install"
	KeyUsageCounters       = "usage_counters"
	KeyPricingTable        = "pricing_table"
	KeyDigestCache         = "digest_cache"
	KeyAPIKey              = "api_key"
)
