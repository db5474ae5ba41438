// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin login and token utilities.

# Admin Login

The admin password is never stored; only its bcrypt hash is configured:

	hash, err := auth.HashPassword("secret")   // once, offline
	err = auth.CheckPassword(cfg.AdminPasswordHash, attempt)

# Admin Tokens

A successful login issues a signed session token:

	token, err := auth.IssueAdminToken(cfg.TokenSalt)
	err = auth.ValidateAdminToken(token, cfg.TokenSalt)

The token is a random UUID followed by its HMAC-SHA256 signature, URL-safe
base64 encoded without padding. Validation needs only the salt, so no
session table exists. A holder of a valid token is a privileged actor.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(8)  // 16 hex characters

# IP Hashing

Candle requests are logged with a hashed client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
