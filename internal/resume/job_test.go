package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "3", want: 3},
		{raw: " 12 ", want: 12},
		{raw: "", want: 0},
		{raw: "three", want: 0},
		{raw: "2.5", want: 0},
		{raw: "0", want: 0},
		{raw: "-4", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseThreshold(tt.raw))
		})
	}
}

func TestNormalizeDoesNotMutate(t *testing.T) {
	job := JobRequirements{
		Title:     "  Data Analyst ",
		Skills:    []string{" Python", "SQL", "python", ""},
		Languages: []string{"English"},
		MinSkills: -2,
	}

	norm := job.Normalize()

	assert.Equal(t, "Data Analyst", norm.Title)
	assert.Equal(t, []string{"python", "sql"}, norm.Skills)
	assert.Equal(t, []string{"english"}, norm.Languages)
	assert.Zero(t, norm.MinSkills)
	assert.Equal(t, " Python", job.Skills[0])
	assert.Equal(t, -2, job.MinSkills)
}

func TestValidate(t *testing.T) {
	require.NoError(t, JobRequirements{Skills: []string{"go"}, MinSkills: 1}.Validate())
	assert.Error(t, JobRequirements{Title: strings.Repeat("x", 257)}.Validate())
}

func TestNegativeThresholdIsAbsent(t *testing.T) {
	job := JobRequirements{Skills: []string{"go"}, MinSkills: -1, MinLanguages: -3}
	require.NoError(t, job.Validate())

	norm := job.Normalize()
	assert.Zero(t, norm.MinSkills)
	assert.Zero(t, norm.MinLanguages)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"python", "sql"}, SplitList(" python, ,sql ,"))
	assert.Empty(t, SplitList(""))
}

func TestEntitySetNilSafe(t *testing.T) {
	var set EntitySet
	assert.Empty(t, set.Persons())

	set = NewEntitySet()
	set.Add(Org, "Stanford University", "")
	assert.Equal(t, []string{"Stanford University"}, set.Orgs())
	assert.Empty(t, set.Dates())
}
