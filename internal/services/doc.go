// Package services implements the business logic layer of FootLens. It sits
// between the HTTP handlers and CLI on one side and the transformer,
// analytics and exporter packages on the other.
//
// # DataService
//
// DataService owns the one published injury table. Load reads the configured
// file, runs the transformer and swaps the new snapshot in atomically;
// concurrent loads collapse into one. Every read works on whichever snapshot
// is current when it starts and never blocks a reload. Until the first load
// succeeds every read returns ErrNoSnapshot.
//
//	svc := services.NewDataService(cfg.Data, logger, metrics)
//	if _, err := svc.Load(ctx); err != nil {
//	    return err
//	}
//	summary, err := svc.Summary(analytics.Filter{Teams: []string{"Arsenal"}})
//
// # HealthService
//
// HealthService reports liveness and whether a snapshot has been published.
package services
