package constants

const (
	AppName = "officehours"

	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix prefixes every environment override, e.g. OFFICEHOURS_DATABASE_HOST.
	EnvPrefix = "OFFICEHOURS"

	EnvProduction  = "production"
	EnvDevelopment = "development"
)
