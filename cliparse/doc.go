// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: connection string (default alertrip.db for sqlite)
  - DatabaseType: sqlite, postgres or pgx (default: sqlite)
  - AdminPasswordHash: bcrypt hash of the admin password (required)
  - TokenSalt: secret for admin token signatures (required)
  - EnvFile: dotenv file loaded before env fallback (default: .env)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-env          Dotenv file ("" disables)
	-admin-hash   Admin password hash
	-token-salt   Admin token salt

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	ADMIN_PASSWORD_HASH → -admin-hash
	TOKEN_SALT          → -token-salt

CLI flags take precedence over environment variables, and environment
variables take precedence over the dotenv file. A missing dotenv file is
not an error.
*/
package cliparse
