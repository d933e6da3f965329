package validation

import (
	"testing"

	"mspro-labs/bean-thinking/internal/models"
)

func TestStructVocabulary(t *testing.T) {
	testCases := []struct {
		name   string
		sel    models.UserSelection
		fields []string
	}{
		{
			name: "valid",
			sel:  models.UserSelection{Flavours: []string{"Nutty", "Sweet"}, BrewStyle: "Black", AdventureLevel: "Classic"},
		},
		{
			name:   "unknown flavour",
			sel:    models.UserSelection{Flavours: []string{"Salty"}, BrewStyle: "Black", AdventureLevel: "Classic"},
			fields: []string{"Flavours[0]"},
		},
		{
			name:   "too many flavours",
			sel:    models.UserSelection{Flavours: []string{"Nutty", "Sweet", "Bold", "Fruity"}, BrewStyle: "Black", AdventureLevel: "Classic"},
			fields: []string{"Flavours"},
		},
		{
			name:   "bad style and adventure",
			sel:    models.UserSelection{Flavours: []string{"Nutty"}, BrewStyle: "Iced", AdventureLevel: "Wild"},
			fields: []string{"BrewStyle", "AdventureLevel"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Struct(tc.sel)
			if err != nil {
				t.Fatalf("Struct returned unexpected error: %v", err)
			}
			if len(got) != len(tc.fields) {
				t.Fatalf("expected %d field errors, got %d (%v)", len(tc.fields), len(got), got)
			}
			for i, f := range tc.fields {
				if got[i].Field != f {
					t.Errorf("field error %d: expected %q, got %q", i, f, got[i].Field)
				}
			}
		})
	}
}

func TestVarRating(t *testing.T) {
	if !Var("Pretty good", "rating") {
		t.Error("expected 'Pretty good' to be a valid rating")
	}
	if Var("Meh", "rating") {
		t.Error("expected 'Meh' to be rejected")
	}
}
