package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mspro-labs/bean-thinking/internal/catalog"
	"mspro-labs/bean-thinking/internal/db"
	"mspro-labs/bean-thinking/internal/logging"
	"mspro-labs/bean-thinking/internal/models"
)

var seedFrom string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect or store the venue catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the catalog the server would load",
	Run: func(cmd *cobra.Command, args []string) {
		appCfg := loadConfig()
		venues, err := catalog.Load(catalog.Source{DBPath: appCfg.Catalog.DBPath, YAMLPath: appCfg.Catalog.Path})
		if err != nil {
			logging.Fatal().Err(err).Msg("Catalog error")
		}
		for _, v := range venues {
			fmt.Printf("%-20s %-6s %-7s %s\n", v.Name, v.AreaCode, v.RoastLevel, v.Profile())
		}
	},
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the catalog into the sqlite database at DB_PATH",
	Long: `Copies a YAML catalog (--from) or the built-in list into the database
named by DB_PATH, replacing what is there. The server reads from that
database whenever DB_PATH is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSeed()
	},
}

func init() {
	catalogSeedCmd.Flags().StringVar(&seedFrom, "from", "", "YAML catalog to import (default: built-in list)")
	catalogCmd.AddCommand(catalogListCmd, catalogSeedCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runSeed() {
	appCfg := loadConfig()
	if appCfg.Catalog.DBPath == "" {
		fmt.Fprintln(os.Stderr, "DB_PATH (or catalog.db) must be set to seed a catalog")
		os.Exit(2)
	}

	var (
		venues []models.Venue
		err    error
	)
	if seedFrom != "" {
		venues, err = catalog.LoadFile(seedFrom)
	} else {
		venues, err = catalog.Default()
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to read catalog")
	}

	database, err := db.Connect(appCfg.Catalog.DBPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Database error")
	}
	defer database.Close()

	count, err := db.SaveVenues(database, venues)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to save catalog")
	}
	logging.Info().Int64("rows", count).Str("db", appCfg.Catalog.DBPath).Msg("Catalog seeded")
}
