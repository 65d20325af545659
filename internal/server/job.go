package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spigell/resume-screener/internal/resume"
)

var jobFields = []string{
	"title", "skills", "languages", "min_skills", "min_languages",
	"bonus", "ats", "extra_bonus", "extra_universities",
}

func parseForm(r *http.Request, maxMemory int64) error {
	err := r.ParseMultipartForm(maxMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("parse form: %w", err)
	}
	return nil
}

// jobFromForm builds requirements from request form fields. When the request
// carries none of them, fallback is returned unchanged.
func jobFromForm(r *http.Request, fallback resume.JobRequirements) resume.JobRequirements {
	present := false
	for _, field := range jobFields {
		if _, ok := r.Form[field]; ok {
			present = true
			break
		}
	}
	if !present {
		return fallback
	}

	return resume.JobRequirements{
		Title:              strings.TrimSpace(r.FormValue("title")),
		Skills:             resume.SplitList(r.FormValue("skills")),
		Languages:          resume.SplitList(r.FormValue("languages")),
		MinSkills:          resume.ParseThreshold(r.FormValue("min_skills")),
		MinLanguages:       resume.ParseThreshold(r.FormValue("min_languages")),
		EnableBonus:        formBool(r.FormValue("bonus")),
		EnableATS:          formBool(r.FormValue("ats")),
		ExtraBonusKeywords: resume.SplitList(r.FormValue("extra_bonus")),
		ExtraUniversities:  resume.SplitList(r.FormValue("extra_universities")),
	}
}

func formBool(raw string) bool {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "on" || raw == "yes" {
		return true
	}
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
