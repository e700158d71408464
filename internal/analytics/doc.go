// Package analytics provides the read-only views the dashboard builds over an
// enriched injury table: membership filters, group-by with top-K, value
// counts, rankings, correlation matrices, descriptive statistics and the KPI
// summary.
//
// Every function takes a *domain.InjuryTable and returns new values; none of
// them modify the table, so they can run concurrently against one published
// snapshot.
package analytics
