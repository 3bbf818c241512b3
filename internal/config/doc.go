// Package config handles configuration loading for the boter console.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment variable
// expansion, then BOTER_* environment variables override individual keys.
// Every key has a default, so running without a file is normal.
//
// # Configuration File
//
// Locations (in order):
//
//  1. The --config flag
//  2. Path from the BOTER_CONFIG environment variable
//  3. ~/.config/boter/console.yaml (respects XDG_CONFIG_HOME)
//
// A missing file at location 3 is not an error. Files ending in .toml are
// decoded as TOML; everything else is YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	fakeapi:
//	  jwt_secret: "${BOTER_FAKE_SECRET}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Environment Overrides
//
//	BOTER_API_URL                 api.base_url
//	BOTER_API_TIMEOUT             api.timeout
//	BOTER_TOKEN_FILE              session.token_path
//	BOTER_LOGOUT_ON_UNAUTHORIZED  session.logout_on_unauthorized
//	BOTER_NAVIGATION_DELAY        ui.navigation_delay
//	BOTER_SETUP_REDIRECT_DELAY    ui.setup_redirect_delay
//	BOTER_LOG_LEVEL               logging.level
//	BOTER_LOG_FORMAT              logging.format
//	BOTER_FAKEAPI_ADDR            fakeapi.addr
//	BOTER_FAKEAPI_DB              fakeapi.database
//	BOTER_JWT_SECRET              fakeapi.jwt_secret
//	BOTER_TOKEN_TTL               fakeapi.token_ttl
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	api:
//	  timeout: "30s"
//	ui:
//	  navigation_delay: "1s"
//
// An empty api.timeout means requests never time out.
//
// # Example
//
//	api:
//	  base_url: "https://bot.example.com"
//	session:
//	  logout_on_unauthorized: true
//	logging:
//	  level: "debug"
//	  format: "json"
package config
