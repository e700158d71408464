// Package http exposes the injury analytics over a chi router.
//
// Handlers stay thin: they decode and validate query parameters, call the
// data service against the current snapshot and render JSON. Every failure is
// rendered as an RFC 7807 problem document by errors.ErrorHandler.
//
// Filtering is shared by all read endpoints through repeatable query
// parameters:
//
//	team, season, severity, position, age_group
//
// A parameter may repeat or carry a comma separated list; values match
// case-insensitively and different parameters combine with AND.
package http
