package matcher

import (
	"fmt"
	"slices"
	"strings"

	"mspro-labs/bean-thinking/internal/models"
	"mspro-labs/bean-thinking/internal/validation"
)

// DefaultTopN is how many venues are shown to the user.
const DefaultTopN = 3

// Messages shown to the user for a rejected questionnaire.
const (
	IncompleteFormMessage = "Please complete all questions including postcode."
	InvalidChoiceMessage  = "Please choose from the options shown."
)

// TooManyFlavoursMessage is shown when more than MaxFlavours are picked.
var TooManyFlavoursMessage = fmt.Sprintf("Please pick up to %d flavours.", models.MaxFlavours)

// ValidationError reports which required answers were missing or invalid.
// Validate reports the lower-case fields "flavours" and "postcode" for
// missing answers; ValidateSelection reports struct field names such as
// "Flavours" (too many) or "BrewStyle" (not in the vocabulary).
type ValidationError struct {
	Fields []string
}

// Message picks the user-facing text for the failure.
func (e *ValidationError) Message() string {
	switch {
	case len(e.Fields) == 0,
		slices.Contains(e.Fields, "flavours"),
		slices.Contains(e.Fields, "postcode"):
		return IncompleteFormMessage
	case slices.Contains(e.Fields, "Flavours"):
		return TooManyFlavoursMessage
	default:
		return InvalidChoiceMessage
	}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message()
	}
	return e.Message() + " (" + strings.Join(e.Fields, ", ") + ")"
}

// Score counts the flavours present in both chosen and descriptors,
// ignoring case and surrounding whitespace.
func Score(chosen, descriptors []string) int {
	if len(chosen) == 0 || len(descriptors) == 0 {
		return 0
	}
	profile := normalize(descriptors)
	score := 0
	for f := range normalize(chosen) {
		if _, ok := profile[f]; ok {
			score++
		}
	}
	return score
}

func normalize(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Rank scores every venue and orders them by descending score.
// Venues with equal scores keep their catalog order.
func Rank(venues []models.Venue, chosen []string) []models.ScoredVenue {
	ranked := make([]models.ScoredVenue, 0, len(venues))
	for _, v := range venues {
		ranked = append(ranked, models.ScoredVenue{Venue: v, Score: Score(chosen, v.Flavours)})
	}
	slices.SortStableFunc(ranked, func(a, b models.ScoredVenue) int {
		return b.Score - a.Score
	})
	return ranked
}

// Top returns at most n leading entries of ranked.
func Top(ranked []models.ScoredVenue, n int) []models.ScoredVenue {
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

// Validate fails when no flavour was chosen or the postcode is blank.
func Validate(chosen []string, postcode string) error {
	var missing []string
	if !validation.Var(chosen, "min=1") {
		missing = append(missing, "flavours")
	}
	if !validation.Var(strings.TrimSpace(postcode), "required") {
		missing = append(missing, "postcode")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ValidateSelection runs Validate and then checks the answers against the
// questionnaire vocabularies.
func ValidateSelection(sel models.UserSelection) error {
	if err := Validate(sel.Flavours, sel.Postcode); err != nil {
		return err
	}
	fieldErrs, err := validation.Struct(sel)
	if err != nil {
		return err
	}
	if len(fieldErrs) == 0 {
		return nil
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, fe.Field)
	}
	return verr
}

// Match validates the selection and returns the top DefaultTopN venues.
// No scoring happens when validation fails.
func Match(venues []models.Venue, sel models.UserSelection) (models.Result, error) {
	if err := ValidateSelection(sel); err != nil {
		return models.Result{}, err
	}
	return models.Result{
		Selection: sel,
		Ranked:    Top(Rank(venues, sel.Flavours), DefaultTopN),
	}, nil
}
