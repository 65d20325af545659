// Package scoring computes the weighted fitness score of a resume against a
// set of job requirements.
//
// The rubric has a fixed denominator of 10: skills 4, job title 1,
// languages 1, bonus 2, ATS 2. A component that is disabled or has no
// requirement configured contributes its full weight, so toggles never shift
// the scale.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/spigell/resume-screener/internal/resume"
	"github.com/spigell/resume-screener/internal/textnorm"
)

const (
	maxSkills    = 4.0
	maxTitle     = 1.0
	maxLanguages = 1.0
	maxBonus     = 2.0
	maxATS       = 2.0

	// TotalMax is the denominator of every breakdown.
	TotalMax = maxSkills + maxTitle + maxLanguages + maxBonus + maxATS

	extraKeywordWeight = 0.5
)

var defaultBonusWeights = map[string]float64{
	"aws certified":   1.0,
	"cisco certified": 1.0,
	"pmp":             1.0,
	"google":          0.5,
	"microsoft":       0.5,
	"oracle":          0.5,
	"ibm":             0.5,
	"certified":       0.3,
	"scrum":           0.3,
}

var atsKeywords = []string{
	"experience",
	"education",
	"skills",
	"certification",
	"projects",
	"summary",
	"objective",
	"profile",
}

// Breakdown is the itemized score of one resume against one job.
type Breakdown struct {
	RequiredSkills float64 `json:"required_skills"`
	JobTitle       float64 `json:"job_title"`
	SkillsJob      float64 `json:"skills_job"`
	Languages      float64 `json:"languages"`
	Bonus          float64 `json:"bonus"`
	ATS            float64 `json:"ats"`
	RawTotal       float64 `json:"raw_total"`
	TotalMax       float64 `json:"total_max"`
	FinalScore     float64 `json:"final_score"`
}

// Score evaluates text against job. Empty inputs are scored as zero matches.
func Score(text string, job resume.JobRequirements) Breakdown {
	job = job.Normalize()
	lower := textnorm.Lower(text)

	skills := skillsScore(lower, job.Skills, job.MinSkills)
	title := titleScore(lower, job.Title)
	languages := languagesScore(lower, job.Languages, job.MinLanguages)

	bonus := maxBonus
	if job.EnableBonus {
		bonus = bonusScore(lower, bonusWeights(job))
	}

	ats := maxATS
	if job.EnableATS {
		ats = atsScore(lower)
	}

	raw := round2(skills + title + languages + bonus + ats)

	return Breakdown{
		RequiredSkills: round2(skills),
		JobTitle:       round2(title),
		SkillsJob:      round2(skills + title),
		Languages:      round2(languages),
		Bonus:          round2(bonus),
		ATS:            round2(ats),
		RawTotal:       raw,
		TotalMax:       TotalMax,
		FinalScore:     round2(raw / TotalMax * 10),
	}
}

func skillsScore(text string, skills []string, threshold int) float64 {
	if len(skills) == 0 {
		return 0
	}
	return thresholdScore(countContained(text, skills), len(skills), threshold, maxSkills)
}

func languagesScore(text string, languages []string, threshold int) float64 {
	if len(languages) == 0 {
		return maxLanguages
	}
	return thresholdScore(countContained(text, languages), len(languages), threshold, maxLanguages)
}

// thresholdScore awards limit once matched reaches a positive threshold and is
// proportional below it. Without a threshold the share of matched terms counts.
func thresholdScore(matched, total, threshold int, limit float64) float64 {
	if threshold > 0 {
		if matched >= threshold {
			return limit
		}
		return math.Min(float64(matched)/float64(threshold)*limit, limit)
	}
	return float64(matched) / float64(total) * limit
}

func titleScore(text, title string) float64 {
	title = textnorm.Lower(title)
	if title == "" {
		return 0
	}
	if strings.Contains(text, title) {
		return maxTitle
	}

	words := strings.Fields(title)
	return math.Min(float64(countContained(text, words))/float64(len(words)), 1) * maxTitle
}

func bonusWeights(job resume.JobRequirements) map[string]float64 {
	weights := make(map[string]float64, len(defaultBonusWeights)+len(job.ExtraBonusKeywords)+len(job.ExtraUniversities))
	for k, w := range defaultBonusWeights {
		weights[k] = w
	}
	for _, k := range job.ExtraBonusKeywords {
		weights[k] = extraKeywordWeight
	}
	for _, k := range job.ExtraUniversities {
		weights[k] = extraKeywordWeight
	}
	return weights
}

func bonusScore(text string, weights map[string]float64) float64 {
	keywords := make([]string, 0, len(weights))
	for k := range weights {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	total := 0.0
	for _, k := range keywords {
		if textnorm.TermPattern(k).MatchString(text) {
			total += weights[k]
		}
	}
	return math.Min(total, maxBonus)
}

func atsScore(text string) float64 {
	n := countContained(text, atsKeywords)
	return math.Min(float64(n)/float64(len(atsKeywords))*maxATS, maxATS)
}

func countContained(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			n++
		}
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
