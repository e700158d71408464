// Package dataprocessing turns the raw football injury file into the enriched
// injury table.
//
// # Architecture
//
// The package is organized into three parts:
//
// 1. Reader: loads a CSV or XLSX file into a RawTable of header-addressed text cells
// 2. Cleaning: pure cell parsers for dates, ratings and goal differences, plus
//    the severity classifier and the age/skill binning
// 3. Transformer: runs the nine enrichment steps and publishes an immutable
//    domain.InjuryTable
//
// # Usage
//
//	raw, err := dataprocessing.ReadFile("data/player_injuries_impact.csv")
//	if err != nil {
//	    return err
//	}
//	table, err := dataprocessing.NewTransformer(logger, dataprocessing.DefaultOptions()).Transform(ctx, raw)
//
// # Data Flow
//
//	File → Reader → RawTable → Transformer → InjuryTable → analytics / exporter
//
// # Error Handling
//
// Structural problems (unreadable file, no header, missing required column)
// are returned as *errors.DataLoadError and no table is produced. A cell that
// fails to parse never fails the load: it becomes a missing value and is
// counted in a debug log line.
package dataprocessing
