package authorize

import "github.com/Alijeyrad/officehours_backend/config"

const (
	AdapterPostgres = "postgres"
	AdapterFile     = "file"
)

// Config holds configuration for the authorization system
type Config struct {
	// Adapter selects policy storage: AdapterPostgres or AdapterFile.
	Adapter string

	// CasbinModelPath is the path to the Casbin model configuration file.
	// The embedded model is used when it is empty or missing.
	CasbinModelPath string

	// PolicyPath is the CSV policy file for AdapterFile. Changes made at
	// runtime are kept in memory only.
	PolicyPath string

	// EnableAudit enables audit logging for all authorization decisions
	EnableAudit bool

	// PolicySyncEnabled enables policy synchronization across distributed instances
	PolicySyncEnabled bool
}

// DefaultConfig returns sensible defaults for authorization configuration
func DefaultConfig() Config {
	return Config{
		Adapter:           AdapterPostgres,
		CasbinModelPath:   "",
		EnableAudit:       true,
		PolicySyncEnabled: false,
	}
}

// FromCentralConfig converts central config.AuthorizationConfig to package Config
func FromCentralConfig(c config.AuthorizationConfig) Config {
	return Config{
		Adapter:           c.Adapter,
		CasbinModelPath:   c.CasbinModelPath,
		PolicyPath:        c.PolicyPath,
		EnableAudit:       c.EnableAudit,
		PolicySyncEnabled: c.PolicySyncEnabled,
	}
}
