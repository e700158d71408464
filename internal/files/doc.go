// Package files locates raw injury input on disk.
//
// The configured input path may name a file or a directory. A directory
// resolves to its most recently modified .csv or .xlsx file, so a new export
// can be dropped next to the old ones and picked up by the next reload.
//
//	discovery := files.NewDiscovery("data")
//	inputs, err := discovery.FindInputFiles("raw")
//	latest, ok := files.GetLatestFile(inputs)
package files
