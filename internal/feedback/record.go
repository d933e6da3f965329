package feedback

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"mspro-labs/bean-thinking/internal/models"
	"mspro-labs/bean-thinking/internal/session"
	"mspro-labs/bean-thinking/internal/validation"
)

const listSep = ", "

// Record is one feedback submission as sent to the form service.
type Record struct {
	Nickname       string
	SessionID      uuid.UUID
	Timestamp      string
	Flavours       []string
	BrewStyle      string
	AdventureLevel string
	Postcode       string
	MatchedNames   []string
	Rating         string
	Comments       string
}

// Input is what the user types into the feedback form.
type Input struct {
	Nickname string `validate:"max=64"`
	Rating   string `validate:"rating"`
	Comments string `validate:"max=2000"`
}

// InputError names the Input fields that failed validation.
type InputError struct {
	Fields []string
}

func (e *InputError) Error() string {
	return "invalid feedback: " + strings.Join(e.Fields, ", ")
}

// Message returns the text shown next to the feedback form. A missing
// rating is reported first.
func (e *InputError) Message() string {
	switch {
	case slices.Contains(e.Fields, "Rating"):
		return "Please tell us how well the matches fit your taste."
	case slices.Contains(e.Fields, "Nickname"):
		return "Nickname must be 64 characters or fewer."
	case slices.Contains(e.Fields, "Comments"):
		return "Comments must be 2000 characters or fewer."
	default:
		return "Please check your feedback and try again."
	}
}

// Validate checks the rating against the known options and bounds the
// free-text fields. Failures are returned as *InputError.
func (in Input) Validate() error {
	fieldErrs, err := validation.Struct(in)
	if err != nil {
		return err
	}
	if len(fieldErrs) > 0 {
		ierr := &InputError{Fields: make([]string, 0, len(fieldErrs))}
		for _, fe := range fieldErrs {
			ierr.Fields = append(ierr.Fields, fe.Field)
		}
		return ierr
	}
	return nil
}

// Build assembles a Record from the match it rates. Empty lists are stored
// as nil, which is what Decode returns for them.
func Build(result models.Result, sess *session.Session, in Input, now time.Time) Record {
	sel := result.Selection
	return Record{
		Nickname:       strings.TrimSpace(in.Nickname),
		SessionID:      sess.ID,
		Timestamp:      now.Format(time.RFC3339),
		Flavours:       listOrNil(sel.Flavours),
		BrewStyle:      sel.BrewStyle,
		AdventureLevel: sel.AdventureLevel,
		Postcode:       sel.Postcode,
		MatchedNames:   listOrNil(result.Names()),
		Rating:         in.Rating,
		Comments:       strings.TrimSpace(in.Comments),
	}
}

// Fields maps each Record field to the external form's input name.
type Fields struct {
	Nickname       string `koanf:"nickname"`
	SessionID      string `koanf:"session_id"`
	Timestamp      string `koanf:"timestamp"`
	Flavours       string `koanf:"flavours"`
	BrewStyle      string `koanf:"brew_style"`
	AdventureLevel string `koanf:"adventure_level"`
	Postcode       string `koanf:"postcode"`
	MatchedNames   string `koanf:"matched_names"`
	Rating         string `koanf:"rating"`
	Comments       string `koanf:"comments"`
}

// DefaultFields returns the placeholder Google Forms entry ids.
func DefaultFields() Fields {
	return Fields{
		Nickname:       "entry.FORM_FIELD_ID_1",
		SessionID:      "entry.FORM_FIELD_ID_2",
		Timestamp:      "entry.FORM_FIELD_ID_3",
		Flavours:       "entry.FORM_FIELD_ID_4",
		BrewStyle:      "entry.FORM_FIELD_ID_5",
		AdventureLevel: "entry.FORM_FIELD_ID_6",
		Postcode:       "entry.FORM_FIELD_ID_7",
		MatchedNames:   "entry.FORM_FIELD_ID_8",
		Rating:         "entry.FORM_FIELD_ID_9",
		Comments:       "entry.FORM_FIELD_ID_10",
	}
}

// Encode flattens rec into form values. Lists are joined with ", ", so
// list elements must not contain commas; the catalog enforces this for
// venue names and the flavour vocabulary has none.
func Encode(rec Record, f Fields) url.Values {
	v := url.Values{}
	v.Set(f.Nickname, rec.Nickname)
	v.Set(f.SessionID, rec.SessionID.String())
	v.Set(f.Timestamp, rec.Timestamp)
	v.Set(f.Flavours, strings.Join(rec.Flavours, listSep))
	v.Set(f.BrewStyle, rec.BrewStyle)
	v.Set(f.AdventureLevel, rec.AdventureLevel)
	v.Set(f.Postcode, rec.Postcode)
	v.Set(f.MatchedNames, strings.Join(rec.MatchedNames, listSep))
	v.Set(f.Rating, rec.Rating)
	v.Set(f.Comments, rec.Comments)
	return v
}

// Decode is the inverse of Encode. Empty lists decode as nil.
func Decode(v url.Values, f Fields) (Record, error) {
	id, err := uuid.Parse(v.Get(f.SessionID))
	if err != nil {
		return Record{}, fmt.Errorf("invalid session id: %w", err)
	}
	return Record{
		Nickname:       v.Get(f.Nickname),
		SessionID:      id,
		Timestamp:      v.Get(f.Timestamp),
		Flavours:       splitList(v.Get(f.Flavours)),
		BrewStyle:      v.Get(f.BrewStyle),
		AdventureLevel: v.Get(f.AdventureLevel),
		Postcode:       v.Get(f.Postcode),
		MatchedNames:   splitList(v.Get(f.MatchedNames)),
		Rating:         v.Get(f.Rating),
		Comments:       v.Get(f.Comments),
	}, nil
}

func listOrNil(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return slices.Clone(list)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
}
