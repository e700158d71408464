// Package exporter writes projections of the enriched injury table to CSV,
// XLSX and JSON, and reads those files back into a domain.Frame.
//
// All three formats are record oriented: one row per injury with the chosen
// columns in order. Numbers are written with two decimal places and missing
// numbers are written as empty cells (CSV, XLSX) or null (JSON), so reading an
// export back reproduces every row within 0.005.
//
// Example usage:
//
//	exp := exporter.NewExporter(logger, metrics)
//	err := exp.ExportFile(ctx, table, exporter.FormatXLSX, []string{"name", "injury"}, "data/exports/injuries.xlsx")
//
//	frame, err := exporter.ReadFile("data/exports/injuries.xlsx")
package exporter
