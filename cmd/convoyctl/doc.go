// Command convoyctl runs the convoyd convoy coordination API.
//
// convoyd authenticates callers with short-lived Bearer credentials and
// authorizes every route against the caller's roles and their permissions.
//
// # Quick Start
//
//	export DATABASE_URL=postgres://postgres@localhost/convoyd?sslmode=disable
//	export CONVOYD_JWT_SECRET=$(openssl rand -base64 32)
//
//	# Create the schema and the bootstrap roles and accounts
//	convoyctl db migrate
//	convoyctl db seed --password changeme
//
//	# Start the server
//	convoyctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - CONVOYD_JWT_SECRET: secret used to sign and verify credentials
//   - CONVOYD_CONFIG_PATH: directory holding convoyd.yml (default: /etc/convoyd)
//   - CONVOYD_TOKEN_TTL: credential lifetime in seconds (default: 3600)
//   - CONVOYD_PROFILE_CACHE_TTL: profile cache lifetime in seconds, 0 disables it
//   - CONVOYD_REDIS_ADDR: Redis address used by the profile cache
//   - CONVOYD_LOG_LEVEL: log level (debug, info, warn, error)
//   - CONVOYD_AUDIT_ENABLED: set to false to silence the audit log
//   - PORT: server port (default: 8000)
package main
