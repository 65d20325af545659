package resume

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/resume-screener/internal/textnorm"
)

// JobRequirements describes what a single scoring run looks for.
// Thresholds that are zero or negative are absent and fall back to
// proportional scoring.
type JobRequirements struct {
	Title              string   `json:"job_title,omitempty" mapstructure:"title" validate:"max=256"`
	Skills             []string `json:"required_skills" mapstructure:"skills"`
	Languages          []string `json:"required_languages,omitempty" mapstructure:"languages"`
	MinSkills          int      `json:"min_skills_threshold,omitempty" mapstructure:"min-skills"`
	MinLanguages       int      `json:"min_languages_threshold,omitempty" mapstructure:"min-languages"`
	EnableBonus        bool     `json:"enable_bonus" mapstructure:"bonus"`
	EnableATS          bool     `json:"enable_ats" mapstructure:"ats"`
	ExtraBonusKeywords []string `json:"extra_bonus_keywords,omitempty" mapstructure:"extra-bonus-keywords"`
	ExtraUniversities  []string `json:"extra_universities,omitempty" mapstructure:"extra-universities"`
}

var validate = validator.New()

// Validate checks the structural constraints of the requirements.
func (j JobRequirements) Validate() error {
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("invalid job requirements: %w", err)
	}
	return nil
}

// Normalize returns a copy with every list in matching form (see textnorm.Lower) and
// de-duplicated in first-seen order. The receiver is not modified.
func (j JobRequirements) Normalize() JobRequirements {
	out := j
	out.Title = strings.TrimSpace(j.Title)
	out.Skills = normalizeList(j.Skills)
	out.Languages = normalizeList(j.Languages)
	out.ExtraBonusKeywords = normalizeList(j.ExtraBonusKeywords)
	out.ExtraUniversities = normalizeList(j.ExtraUniversities)
	if out.MinSkills < 0 {
		out.MinSkills = 0
	}
	if out.MinLanguages < 0 {
		out.MinLanguages = 0
	}
	return out
}

// ParseThreshold converts a user supplied threshold. Anything that is not a
// positive integer means "no threshold" and yields 0.
func ParseThreshold(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = textnorm.Lower(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
