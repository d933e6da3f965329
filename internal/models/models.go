package models

import (
	"fmt"
	"strings"
)

// RoastLevel is how dark a venue roasts its house beans.
type RoastLevel string

const (
	RoastLight  RoastLevel = "Light"
	RoastMedium RoastLevel = "Medium"
	RoastDark   RoastLevel = "Dark"
)

// ParseRoastLevel accepts any casing of Light, Medium or Dark.
func ParseRoastLevel(s string) (RoastLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return RoastLight, nil
	case "medium":
		return RoastMedium, nil
	case "dark":
		return RoastDark, nil
	}
	return "", fmt.Errorf("unknown roast level %q", s)
}

// Venue is a coffee shop in the catalog. Venues are built once at startup
// and never modified afterwards.
type Venue struct {
	Name       string
	AreaCode   string
	RoastLevel RoastLevel
	Flavours   []string
}

// Profile renders the flavour descriptors the way they are shown to users.
func (v Venue) Profile() string {
	return strings.Join(v.Flavours, ", ")
}

// ParseFlavours splits a comma-separated descriptor string such as
// "Bold, chocolatey, toffee" into its trimmed, non-empty parts.
func ParseFlavours(profile string) []string {
	var out []string
	for _, part := range strings.Split(profile, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UserSelection holds the answers from one questionnaire submission.
type UserSelection struct {
	// max must equal MaxFlavours.
	Flavours       []string `validate:"max=3,dive,flavour"`
	BrewStyle      string   `validate:"brewstyle"`
	AdventureLevel string   `validate:"adventure"`
	Postcode       string
}

// ScoredVenue pairs a venue with its match score for one request.
type ScoredVenue struct {
	Venue Venue
	Score int
}

// Result is the outcome of a match. Feedback can only be built from one.
type Result struct {
	Selection UserSelection
	Ranked    []ScoredVenue
}

// Names returns the matched venue names in rank order.
func (r Result) Names() []string {
	names := make([]string, 0, len(r.Ranked))
	for _, sv := range r.Ranked {
		names = append(names, sv.Venue.Name)
	}
	return names
}

// MaxFlavours is the most flavours a user may pick.
const MaxFlavours = 3

// Questionnaire vocabularies, in display order. The validation tags
// flavour, brewstyle, adventure and rating accept only these values.
var (
	FlavourOptions  = []string{"Chocolatey", "Nutty", "Fruity", "Sweet", "Bold", "Smooth", "Floral", "Citrus", "Spicy", "Earthy"}
	BrewStyles      = []string{"Milk-based", "Black", "Filter / Hand-brewed"}
	AdventureLevels = []string{"Classic", "Balanced", "Adventurous"}
	FeedbackRatings = []string{"Perfect match", "Pretty good", "Not really", "Didn't try any"}
)
