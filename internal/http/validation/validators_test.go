package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		v     Validator
		input string
		want  string
	}{
		{"required empty", Required("Name", 10), "  ", "Name is required."},
		{"required too long", Required("Name", 3), "Rosewood", "Name cannot exceed 3 characters."},
		{"required unicode counts runes", Required("Name", 4), "Zoë!", ""},
		{"optional empty", Optional("Notes", 5), "", ""},
		{"optional too long", Optional("Notes", 5), "abcdef", "Notes cannot exceed 5 characters."},
		{"min length", MinLength("Password", 8), "short", "Password must be at least 8 characters."},
		{"min length ok", MinLength("Password", 8), "long enough", ""},
		{"int empty passes", IntRange("Capacity", 0, 500), "", ""},
		{"int not a number", IntRange("Capacity", 0, 500), "ten", "Capacity must be a whole number."},
		{"int out of range", IntRange("Capacity", 0, 500), "501", "Capacity must be between 0 and 500."},
		{"float ok", FloatRange("Latitude", -90, 90), "51.5072", ""},
		{"float out of range", FloatRange("Latitude", -90, 90), "91", "Latitude must be between -90 and 90."},
		{"float not a number", FloatRange("Price", 0, 1e6), "free", "Price must be a number."},
		{"one of case-insensitive", OneOf("Role", []string{"admin", "resident"}), "ADMIN", ""},
		{"one of rejects", OneOf("Role", []string{"admin", "resident"}), "root", "Role must be one of: admin, resident"},
		{"email ok", Email("Email"), "ops@carehaven.test", ""},
		{"email with display name rejected", Email("Email"), "Ops <ops@carehaven.test>", "Enter a valid email."},
		{"email invalid", Email("Email"), "ops@", "Enter a valid email."},
		{"url ok", HTTPURL("Website"), "https://carehaven.test", ""},
		{"url bad scheme", HTTPURL("Website"), "ftp://carehaven.test", "Website must be a valid http(s) URL."},
		{"date ok", Date("Interview date"), "2026-03-01", ""},
		{"date bad", Date("Interview date"), "01/03/2026", "Interview date must be a date (YYYY-MM-DD)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v(tt.input))
		})
	}
}

func TestFieldValidator(t *testing.T) {
	errs := New().
		Validate("name", "", Required("Name", 100)).
		Validate("email", "nope", Required("Email", 100), Email("Email")).
		Validate("phone", "555-0100", Optional("Phone", 30)).
		Errors()

	assert.Equal(t, map[string]string{
		"name":  "Name is required.",
		"email": "Enter a valid email.",
	}, errs)
}

func TestFieldValidator_StopsAtFirstError(t *testing.T) {
	errs := New().Validate("name", "", Required("Name", 1), Optional("Name", 0)).Errors()
	assert.Equal(t, "Name is required.", errs["name"])
}

func TestFieldValidator_AddKeepsFirstMessage(t *testing.T) {
	fv := New().Validate("file", "", Required("File", 10))
	fv.Add("file", "File is too large.").Add("picture", "Picture must be an image.").Add("x", "")

	errs := fv.Errors()
	assert.Equal(t, "File is required.", errs["file"])
	assert.Equal(t, "Picture must be an image.", errs["picture"])
	assert.NotContains(t, errs, "x")
}
