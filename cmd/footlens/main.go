// Command footlens prepares the football injury dataset and serves its analytics.
//
// Usage:
//
//	footlens transform --in data/player_injuries_impact.csv --out out/enriched.xlsx
//	footlens transform --in raw.csv --out enriched.json --columns name,team_name,injury
//	footlens summary --in raw.csv --team "Manchester City"
//	footlens correlate --in raw.csv --column age,fifa_rating
//	footlens serve --config config.yaml
//	footlens version
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
