// Package redis connects to Redis with retries and exposes a readiness check.
//
// The notification service uses Redis only to relay in-app inbox messages
// between instances, so the connection is optional: an empty
// Config.ConnectionURL returns ErrEmptyConnectionURL and the caller decides
// whether that is fatal.
//
//	client, err := redis.Connect(ctx, cfg)
//	if errors.Is(err, redis.ErrEmptyConnectionURL) {
//	    // run without cross-instance fan-out
//	}
package redis
