// Package config provides configuration management for convoyd.
//
// # Configuration Sources
//
// Values are resolved in order, later sources winning:
//
//   - Built-in defaults
//   - $CONVOYD_CONFIG_PATH/convoyd.yml (default /etc/convoyd/convoyd.yml)
//   - Environment variables
//
// The source of each value is tracked and shown by
// `convoyctl configuration show`. `convoyctl configuration apply` writes the
// effective values back to the config file.
//
// # Key Configuration Options
//
//   - CONVOYD_JWT_SECRET: Credential signing secret (environment only)
//   - DATABASE_URL: Database connection (environment only)
//   - CONVOYD_LOG_LEVEL: "debug" enables SQL logging
//   - CONVOYD_TOKEN_TTL: Credential lifetime in seconds
//   - CONVOYD_PROFILE_CACHE_TTL: Profile cache lifetime, 0 disables. Role and
//     account changes made through the API evict cached profiles at once;
//     changes made directly in the database, for example deactivating a user,
//     take effect only when the cached profile expires.
//   - CONVOYD_REDIS_ADDR: Redis address for the profile cache
package config
