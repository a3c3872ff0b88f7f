// Package worker runs the article pipeline as a Redis Streams consumer.
//
// The worker joins a consumer group on the request stream, runs the full
// generation pipeline for each queued topic, and publishes the outcome (or
// the failure) on the result stream.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
//	p, _ := pipeline.New(cfg, logger)
//
//	w := worker.NewWorker(cfg, redisClient, p, logger)
//	if err := w.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// Health checks are served by a separate HTTP server:
//
//	healthServer := worker.NewHealthServer(cfg.HealthPort, redisClient, logger)
//	healthServer.Start()
//	defer healthServer.Stop()
package worker
