// Package redis opens go-redis clients for the message service.
//
// Open validates a [Config], pings the server with linear backoff and returns
// a ready *redis.Client. [Healthcheck] and [Shutdown] adapt the client to the
// readiness probe and the server's shutdown hooks:
//
//	client, err := redis.Open(ctx, redis.Config{URL: os.Getenv("REDIS_URL")}, log)
//	if err != nil {
//		return err
//	}
//	checks.Add("redis", redis.Healthcheck(client))
//	hooks = append(hooks, redis.Shutdown(client))
//
// Errors wrap the sentinels in errors.go with errors.Join.
package redis
