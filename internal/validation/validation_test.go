package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/resume-screener/internal/resume"
)

func orgs(values ...string) resume.EntitySet {
	set := resume.NewEntitySet()
	set.Add(resume.Org, values...)
	return set
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "Stanford", b: "Stanford University", want: 100},
		{a: "harvard university", b: "Harvard University", want: 100},
		{a: "University, Harvard", b: "Harvard University", want: 100},
		{a: "MIT Media Lab", b: "MIT", want: 100},
		{a: "", b: "MIT", want: 0},
		{a: "Boston University", b: "Harvard University", want: 74},
		{a: "Standford University", b: "Stanford University", want: 97},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, similarity(tt.a, tt.b))
		})
	}
}

func TestValidate(t *testing.T) {
	text := "Jane Doe\njane.doe@example.com | +1 555-123-4567\nalt: jd@mail.co.uk"
	ents := orgs("Stanford", "Boston University", "Acme Corp", "Massachusetts Institute of Technology")

	got := Validate(text, ents)

	assert.Equal(t, []string{"jane.doe@example.com", "jd@mail.co.uk"}, got.Emails)
	assert.Equal(t, []string{"+1 555-123-4567"}, got.Phones)
	assert.Equal(t, []string{"Stanford", "Massachusetts Institute of Technology"}, got.ValidInstitutions)
}

func TestValidateUnicodeEmails(t *testing.T) {
	got := Validate("José Núñez\njosé@example.com\nmüller@exämple.de", nil)

	assert.Equal(t, []string{"josé@example.com", "müller@exämple.de"}, got.Emails)
}

func TestValidateTypoedInstitution(t *testing.T) {
	got := Validate("", orgs("Standford University", "Havard University", "Boston University"))

	assert.Equal(t, []string{"Standford University", "Havard University"}, got.ValidInstitutions)
}

func TestValidateEmptyInput(t *testing.T) {
	got := Validate("", nil)

	assert.Empty(t, got.Emails)
	assert.Empty(t, got.Phones)
	assert.NotNil(t, got.ValidInstitutions)
	assert.Empty(t, got.ValidInstitutions)
}

func TestValidatorExtraInstitutions(t *testing.T) {
	v := New("ETH Zurich", " ")

	got := v.Validate("", orgs("ETH Zurich", "Oxford"))

	assert.Equal(t, []string{"ETH Zurich"}, got.ValidInstitutions)
}

func TestUniqueEmails(t *testing.T) {
	results := []Result{
		{Emails: []string{"a@x.com"}},
		{Emails: []string{"b@x.com"}},
		{Emails: []string{"a@x.com"}},
	}

	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, UniqueEmails(results...))
	assert.Empty(t, UniqueEmails())
}
