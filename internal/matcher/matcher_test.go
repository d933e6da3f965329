package matcher

import (
	"errors"
	"slices"
	"testing"

	"mspro-labs/bean-thinking/internal/models"
)

func venue(name, profile string) models.Venue {
	return models.Venue{Name: name, AreaCode: "EC1", RoastLevel: models.RoastMedium, Flavours: models.ParseFlavours(profile)}
}

func names(ranked []models.ScoredVenue) []string {
	out := make([]string, 0, len(ranked))
	for _, sv := range ranked {
		out = append(out, sv.Venue.Name)
	}
	return out
}

func TestScore(t *testing.T) {
	testCases := []struct {
		name        string
		chosen      []string
		descriptors []string
		expected    int
	}{
		{"overlap", []string{"Nutty", "Sweet"}, []string{"chocolatey", "nutty", "sweet"}, 2},
		{"case insensitive", []string{"NUTTY"}, []string{"Nutty"}, 1},
		{"whitespace trimmed", []string{" nutty "}, []string{"nutty  "}, 1},
		{"duplicates count once", []string{"Nutty", "nutty"}, []string{"nutty"}, 1},
		{"no overlap", []string{"Bold"}, []string{"fruity", "sweet"}, 0},
		{"empty chosen", nil, []string{"nutty"}, 0},
		{"empty descriptors", []string{"Nutty"}, nil, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.chosen, tc.descriptors); got != tc.expected {
				t.Errorf("Score(%v, %v): expected %d, got %d", tc.chosen, tc.descriptors, tc.expected, got)
			}
		})
	}
}

func TestScoreCaseSymmetry(t *testing.T) {
	d := models.ParseFlavours("Chocolatey, nutty, citrusy")
	if Score([]string{"Nutty"}, d) != Score([]string{"nutty"}, d) {
		t.Error("score changed with the case of the chosen flavour")
	}
}

func TestScoreNeverExceedsChosen(t *testing.T) {
	d := models.ParseFlavours("Bold, chocolatey, toffee, nutty, sweet")
	for _, chosen := range [][]string{{"Bold"}, {"Bold", "Sweet"}, {"Bold", "Sweet", "Nutty"}} {
		if got := Score(chosen, d); got > len(chosen) {
			t.Errorf("Score(%v) = %d exceeds %d chosen flavours", chosen, got, len(chosen))
		}
	}
}

func TestRankStableOnTies(t *testing.T) {
	catalog := []models.Venue{
		venue("A", "Chocolatey, Nutty"),
		venue("B", "Fruity, Sweet"),
		venue("C", "Nutty, Sweet"),
	}

	ranked := Rank(catalog, []string{"Nutty", "Sweet"})

	if got, want := names(ranked), []string{"C", "A", "B"}; !slices.Equal(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	scores := []int{ranked[0].Score, ranked[1].Score, ranked[2].Score}
	if !slices.Equal(scores, []int{2, 1, 1}) {
		t.Errorf("expected scores [2 1 1], got %v", scores)
	}
	if catalog[0].Name != "A" || catalog[2].Name != "C" {
		t.Error("Rank reordered its input")
	}
}

func TestRankNoMatchesKeepsCatalogOrder(t *testing.T) {
	catalog := []models.Venue{
		venue("A", "Chocolatey, Nutty"),
		venue("B", "Fruity, Sweet"),
		venue("C", "Nutty, Sweet"),
	}

	ranked := Rank(catalog, []string{"Bold"})

	if got := names(ranked); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("expected catalog order, got %v", got)
	}
	for _, sv := range ranked {
		if sv.Score != 0 {
			t.Errorf("%s: expected score 0, got %d", sv.Venue.Name, sv.Score)
		}
	}
}

func TestTop(t *testing.T) {
	ranked := Rank([]models.Venue{venue("A", ""), venue("B", ""), venue("C", ""), venue("D", "")}, nil)

	if got := len(Top(ranked, DefaultTopN)); got != 3 {
		t.Errorf("expected 3 results, got %d", got)
	}
	if got := len(Top(ranked[:2], DefaultTopN)); got != 2 {
		t.Errorf("expected short list to pass through, got %d", got)
	}
	if got := len(Top(ranked, -1)); got != 0 {
		t.Errorf("expected negative n to yield nothing, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		chosen   []string
		postcode string
		fails    bool
	}{
		{"complete", []string{"Nutty"}, "EC4R 3TL", false},
		{"no flavours", nil, "EC4R 3TL", true},
		{"empty flavours", []string{}, "EC4R 3TL", true},
		{"blank postcode", []string{"Nutty"}, "   ", true},
		{"empty postcode", []string{"Nutty"}, "", true},
		{"nothing", nil, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.chosen, tc.postcode)
			if (err != nil) != tc.fails {
				t.Fatalf("Validate(%v, %q): expected failure=%v, got %v", tc.chosen, tc.postcode, tc.fails, err)
			}
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestMatch(t *testing.T) {
	catalog := []models.Venue{
		venue("A", "Chocolatey, Nutty"),
		venue("B", "Fruity, Sweet"),
		venue("C", "Nutty, Sweet"),
		venue("D", "Bold"),
	}
	sel := models.UserSelection{
		Flavours:       []string{"Nutty", "Sweet"},
		BrewStyle:      "Black",
		AdventureLevel: "Balanced",
		Postcode:       "EC4R 3TL",
	}

	res, err := Match(catalog, sel)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if got := res.Names(); !slices.Equal(got, []string{"C", "A", "B"}) {
		t.Errorf("expected [C A B], got %v", got)
	}

	sel.BrewStyle = "Iced"
	if _, err := Match(catalog, sel); err == nil {
		t.Error("expected unknown brew style to be rejected")
	}

	sel.BrewStyle = "Black"
	sel.Postcode = ""
	res, err = Match(catalog, sel)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(res.Ranked) != 0 {
		t.Error("expected no ranking on validation failure")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	base := models.UserSelection{
		Flavours:       []string{"Nutty"},
		BrewStyle:      "Black",
		AdventureLevel: "Balanced",
		Postcode:       "EC4R 3TL",
	}
	testCases := []struct {
		name   string
		change func(*models.UserSelection)
		want   string
	}{
		{"blank postcode", func(s *models.UserSelection) { s.Postcode = "" }, IncompleteFormMessage},
		{"no flavours", func(s *models.UserSelection) { s.Flavours = nil }, IncompleteFormMessage},
		{"too many flavours", func(s *models.UserSelection) {
			s.Flavours = []string{"Nutty", "Sweet", "Bold", "Fruity"}
		}, "Please pick up to 3 flavours."},
		{"unknown flavour", func(s *models.UserSelection) { s.Flavours = []string{"Salty"} }, InvalidChoiceMessage},
		{"unknown adventure", func(s *models.UserSelection) { s.AdventureLevel = "Reckless" }, InvalidChoiceMessage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sel := base
			tc.change(&sel)
			var verr *ValidationError
			if err := ValidateSelection(sel); !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if got := verr.Message(); got != tc.want {
				t.Errorf("expected %q, got %q (fields %v)", tc.want, got, verr.Fields)
			}
		})
	}
}
