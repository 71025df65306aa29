// Package health serves liveness and readiness probes.
//
// [LivenessHandler] answers OK unconditionally. [ReadinessHandler] runs named
// [Checks] in parallel under a shared timeout and answers 503 if any fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"catalog":  catalogCheck,
//		"redis":    redis.Healthcheck(client),
//		"postgres": db.Healthcheck(pool),
//	}, health.WithLogger(log)))
//
// Responses are plain text unless the client asks for JSON with
// Accept: application/json or ?format=json.
package health
