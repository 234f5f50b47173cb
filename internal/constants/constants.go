package constants

import "time"

// Context keys shared by middleware and handlers.
const (
	ContextKeyUserID       = "user_id"
	ContextKeyUser         = "user"
	ContextKeyOrganization = "organization"
)

// Authentication
const (
	MinPasswordLength = 8
	BcryptCost        = 10
	DefaultTokenTTL   = 7 * 24 * time.Hour
	BearerPrefix      = "Bearer "
)

// Rate limiting on /api
const (
	DefaultRateLimit       = 100
	DefaultRateLimitWindow = 15 * time.Minute
)
