// Package config loads application settings with viper.
//
// Sources, lowest precedence first: built-in defaults, ./.env (via godotenv),
// ./config.yaml, then SCRY_ prefixed environment variables such as
// SCRY_DATABASE_URL or SCRY_AUTH_SESSION_TOKEN. DATABASE_URL and UUID are
// accepted as fallbacks for the database URL and the session token.
package config
