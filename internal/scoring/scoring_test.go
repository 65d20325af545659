package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-screener/internal/resume"
)

func TestScoreFullMarks(t *testing.T) {
	text := "Experienced Python developer, worked with SQL databases. Currently a data analyst."
	job := resume.JobRequirements{
		Title:  "Data Analyst",
		Skills: []string{"python", "sql"},
	}

	got := Score(text, job)

	assert.Equal(t, Breakdown{
		RequiredSkills: 4,
		JobTitle:       1,
		SkillsJob:      5,
		Languages:      1,
		Bonus:          2,
		ATS:            2,
		RawTotal:       10,
		TotalMax:       10,
		FinalScore:     10,
	}, got)
}

func TestDisabledChecksAwardFullMarks(t *testing.T) {
	job := resume.JobRequirements{Skills: []string{"go"}}

	for _, text := range []string{"", "nothing relevant here", "aws certified scrum"} {
		got := Score(text, job)
		assert.Equal(t, 2.0, got.Bonus, text)
		assert.Equal(t, 2.0, got.ATS, text)
		assert.Equal(t, 10.0, got.TotalMax, text)
	}
}

func TestSkillsScore(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		skills    []string
		threshold int
		want      float64
	}{
		{name: "no skills configured", text: "python", want: 0},
		{name: "proportional", text: "python and docker", skills: []string{"python", "sql", "docker", "go"}, want: 2},
		{name: "substring match", text: "postgresql", skills: []string{"sql"}, want: 4},
		{name: "threshold reached", text: "python sql", skills: []string{"python", "sql", "go"}, threshold: 2, want: 4},
		{name: "below threshold", text: "python", skills: []string{"python", "sql", "go"}, threshold: 4, want: 1},
		{name: "case insensitive", text: "PYTHON", skills: []string{"Python"}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.text, resume.JobRequirements{Skills: tt.skills, MinSkills: tt.threshold})
			assert.InDelta(t, tt.want, got.RequiredSkills, 0.001)
		})
	}
}

func TestSkillsScoreMonotonic(t *testing.T) {
	skills := []string{"python", "sql", "docker", "kubernetes", "terraform"}
	job := resume.JobRequirements{Skills: skills}

	previous := -1.0
	for i := 0; i <= len(skills); i++ {
		got := Score(strings.Join(skills[:i], " "), job).RequiredSkills
		assert.GreaterOrEqual(t, got, previous)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 4.0)
		previous = got
	}
}

func TestTitleScore(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		title string
		want  float64
	}{
		{name: "empty title", text: "data analyst", title: "", want: 0},
		{name: "whole title", text: "senior data analyst", title: "Data Analyst", want: 1},
		{name: "half the words", text: "data engineer", title: "Data Analyst", want: 0.5},
		{name: "no words", text: "chef", title: "Data Analyst", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.text, resume.JobRequirements{Title: tt.title})
			assert.InDelta(t, tt.want, got.JobTitle, 0.001)
		})
	}
}

func TestLanguagesScore(t *testing.T) {
	assert.Equal(t, 1.0, Score("", resume.JobRequirements{}).Languages)

	job := resume.JobRequirements{Languages: []string{"English", "German", "French"}}
	assert.InDelta(t, 0.33, Score("fluent english", job).Languages, 0.001)

	job.MinLanguages = 2
	assert.Equal(t, 0.5, Score("fluent english", job).Languages)
	assert.Equal(t, 1.0, Score("english, german", job).Languages)
}

func TestBonusScore(t *testing.T) {
	job := resume.JobRequirements{EnableBonus: true}

	got := Score("AWS Certified Solutions Architect. Also Certified in first aid.", job)
	assert.InDelta(t, 1.3, got.Bonus, 0.001)

	got = Score("Worked at Google, Microsoft, Oracle and IBM. PMP. AWS Certified.", job)
	assert.Equal(t, 2.0, got.Bonus)

	got = Score("googled things", job)
	assert.Equal(t, 0.0, got.Bonus)
}

func TestBonusExtraKeywords(t *testing.T) {
	job := resume.JobRequirements{
		EnableBonus:        true,
		ExtraBonusKeywords: []string{"Kubernetes", "scrum"},
		ExtraUniversities:  []string{"Stanford University"},
	}

	got := Score("Kubernetes admin, scrum master, Stanford University alumni", job)

	// scrum is overwritten with the extra keyword weight
	assert.InDelta(t, 1.5, got.Bonus, 0.001)
}

func TestATSScore(t *testing.T) {
	job := resume.JobRequirements{EnableATS: true}

	assert.Equal(t, 0.0, Score("", job).ATS)
	assert.Equal(t, 1.0, Score("Summary. Experience. Education. Skills.", job).ATS)
	assert.Equal(t, 2.0, Score("experience education skills certification projects summary objective profile", job).ATS)
}

func TestFinalScoreInvariant(t *testing.T) {
	jobs := []resume.JobRequirements{
		{},
		{Skills: []string{"go", "rust"}, EnableBonus: true, EnableATS: true},
		{Title: "Platform Engineer", Languages: []string{"english"}, MinLanguages: 1, EnableATS: true},
	}
	texts := []string{"", "go developer with experience", "platform engineer, english, scrum, certified"}

	for _, job := range jobs {
		for _, text := range texts {
			got := Score(text, job)
			assert.Equal(t, round2(got.RawTotal), got.FinalScore)
			assert.GreaterOrEqual(t, got.RawTotal, 0.0)
			assert.LessOrEqual(t, got.RawTotal, 10.0)
			assert.Equal(t, 10.0, got.TotalMax)
		}
	}
}

func TestEngineLogsAndValidates(t *testing.T) {
	_, err := NewEngine(resume.JobRequirements{Title: strings.Repeat("x", 257)}, nil)
	require.Error(t, err)

	lenient, err := NewEngine(resume.JobRequirements{Skills: []string{"go", "sql"}, MinSkills: -1}, nil)
	require.NoError(t, err)
	assert.Zero(t, lenient.Job().MinSkills)
	assert.Equal(t, 2.0, lenient.Score("doc-0", "go").RequiredSkills)

	core, observed := observer.New(zapcore.DebugLevel)
	engine, err := NewEngine(resume.JobRequirements{Skills: []string{" Go "}}, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, engine.Job().Skills)

	b := engine.Score("doc-1", "go")
	assert.Equal(t, 9.0, b.FinalScore)

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "doc-1", entries[0].ContextMap()["document_id"])
}
