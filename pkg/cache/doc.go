// Package cache provides the Redis backed profile cache.
//
// Caching is off unless profile_cache_ttl is set. When on, a profile built
// by the loader is kept for the TTL, so role and permission changes made
// directly in the database become visible only after it lapses. Changes made
// through the API invalidate the affected subject immediately.
package cache
