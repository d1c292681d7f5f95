// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Search: Query limits, similarity thresholds and the per-strategy caps.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "gigposter-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Search

const (
	// SearchDefaultThreshold is the minimum score a generic-strategy result must reach.
	SearchDefaultThreshold = 0.35

	// SearchMaxQueryLength is the longest raw query accepted by the HTTP surface, in characters.
	SearchMaxQueryLength = 200

	// SearchMinQueryLength is the shortest cleaned query worth resolving.
	SearchMinQueryLength = 2

	// SearchResultLimit caps the number of poster ids one query can return.
	SearchResultLimit = 50

	// SearchArtistThreshold is the trigram cutoff used when resolving artist names.
	SearchArtistThreshold = 0.3

	// SearchVenueThreshold is the trigram cutoff used when resolving venues and cities.
	SearchVenueThreshold = 0.3

	// SearchCityThreshold is the looser venue cutoff for recognised multi-word cities.
	SearchCityThreshold = 0.2

	// SearchWholeNameThreshold is the artist cutoff when a whole multi-word query
	// is read as one artist name.
	SearchWholeNameThreshold = 0.8

	// SearchStatementTimeout caps any single catalogue statement.
	SearchStatementTimeout = 5 * time.Second

	// BrowseSimilarity is the cutoff for the paginated poster listing when a query is given.
	BrowseSimilarity = 0.2
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCatalog = "catalog"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSearchResult = "search:result:"
)
