package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mspro-labs/bean-thinking/internal/catalog"
	"mspro-labs/bean-thinking/internal/logging"
	"mspro-labs/bean-thinking/internal/matcher"
	"mspro-labs/bean-thinking/internal/models"
)

var (
	matchFlavours  []string
	matchStyle     string
	matchAdventure string
	matchPostcode  string
	matchAll       bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the catalog against your flavour picks",
	Long: `Answers the questionnaire from the command line and prints the top matches.
Examples:
  bean-thinking match --flavour Nutty --flavour Sweet --postcode "EC4R 3TL"
  bean-thinking match -f Fruity,Floral -p EC2M --style Black --all`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMatch(os.Stdout); err != nil {
			var verr *matcher.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintln(os.Stderr, verr.Error())
				os.Exit(2)
			}
			logging.Fatal().Err(err).Msg("Match failed")
		}
	},
}

func init() {
	matchCmd.Flags().StringSliceVarP(&matchFlavours, "flavour", "f", nil, "flavour you enjoy (up to 3, repeatable)")
	matchCmd.Flags().StringVar(&matchStyle, "style", models.BrewStyles[0], "how you usually drink your coffee")
	matchCmd.Flags().StringVar(&matchAdventure, "adventure", models.AdventureLevels[0], "how adventurous your taste buds are")
	matchCmd.Flags().StringVarP(&matchPostcode, "postcode", "p", "", "your postcode")
	matchCmd.Flags().BoolVar(&matchAll, "all", false, "print the whole ranking, not just the top matches")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(out io.Writer) error {
	appCfg := loadConfig()
	venues, err := catalog.Load(catalog.Source{DBPath: appCfg.Catalog.DBPath, YAMLPath: appCfg.Catalog.Path})
	if err != nil {
		return err
	}

	sel := models.UserSelection{
		Flavours:       matchFlavours,
		BrewStyle:      matchStyle,
		AdventureLevel: matchAdventure,
		Postcode:       matchPostcode,
	}
	result, err := matcher.Match(venues, sel)
	if err != nil {
		return err
	}

	ranked := result.Ranked
	if matchAll {
		ranked = matcher.Rank(venues, sel.Flavours)
	}
	printRanking(out, ranked)
	return nil
}

func printRanking(out io.Writer, ranked []models.ScoredVenue) {
	fmt.Fprintln(out, "☕ Here are your top matches:")
	fmt.Fprintln(out)
	for i, sv := range ranked {
		fmt.Fprintf(out, "#%d [score %d] %s (%s)\n", i+1, sv.Score, sv.Venue.Name, sv.Venue.AreaCode)
		fmt.Fprintf(out, "   Roast: %s\n", sv.Venue.RoastLevel)
		fmt.Fprintf(out, "   Flavour Profile: %s\n\n", sv.Venue.Profile())
	}
}
