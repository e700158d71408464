// Package config loads the FootLens configuration.
//
// Values are layered, later sources overriding earlier ones:
//
//	1. Default()
//	2. YAML file (FOOTLENS_CONFIG_FILE, ./config.yaml or ./configs/config.yaml)
//	3. Environment variables prefixed with FOOTLENS_
//
// Examples:
//
//	FOOTLENS_SERVER_PORT=9000
//	FOOTLENS_DATA_INPUT_PATH=/srv/data/player_injuries_impact.csv
//	FOOTLENS_DATA_SENTINELS=N.A.,n/a
//	FOOTLENS_LOGGING_LEVEL=debug
package config
