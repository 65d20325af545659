package screening

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spigell/resume-screener/internal/validation"
)

const (
	OutcomeIDField       = "ID"
	OutcomeDigestField   = "Digest"
	OutcomeFileNameField = "FileName"
)

type Outcomes struct {
	Items []*Outcome
}

// ExcludedResumes is the content of an exclude file: documents that were
// already reviewed and should be skipped by later runs.
type ExcludedResumes struct {
	Items []*ExcludedResume
}

type ExcludedResume struct {
	Digest     string
	FileName   string
	Name       string
	ExcludedAt time.Time
}

func (o *Outcomes) Len() int {
	return len(o.Items)
}

func (o *Outcome) GetStringField(name string) string {
	switch name {
	case OutcomeIDField:
		return o.ID
	case OutcomeDigestField:
		return o.Digest
	case OutcomeFileNameField:
		return o.FileName
	default:
		return ""
	}
}

// Exclude removes every outcome whose field matches one of targets and
// returns the removed ids. Order is not preserved.
func (o *Outcomes) Exclude(name string, targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}

	var excluded []string
	for idx := len(o.Items) - 1; idx >= 0; idx-- {
		item := o.Items[idx]
		if _, ok := set[item.GetStringField(name)]; ok {
			o.RemoveByIndex(idx)
			excluded = append(excluded, item.ID)
		}
	}
	return excluded
}

// ExcludeWhere removes outcomes matching fn and returns their ids.
func (o *Outcomes) ExcludeWhere(fn func(*Outcome) bool) []string {
	var excluded []string
	for idx := len(o.Items) - 1; idx >= 0; idx-- {
		item := o.Items[idx]
		if fn(item) {
			o.RemoveByIndex(idx)
			excluded = append(excluded, item.ID)
		}
	}
	return excluded
}

// RemoveByIndex remove outcome from list by index. Do not preserve order.
func (o *Outcomes) RemoveByIndex(idx int) {
	o.Items[idx] = o.Items[len(o.Items)-1]
	o.Items = o.Items[:len(o.Items)-1]
}

// SortByScore orders outcomes by final score, best first. Failed outcomes go
// last; ties are broken by file name.
func (o *Outcomes) SortByScore() {
	sort.SliceStable(o.Items, func(i, j int) bool {
		a, b := o.Items[i], o.Items[j]
		if a.FinalScore() != b.FinalScore() {
			return a.FinalScore() > b.FinalScore()
		}
		return a.FileName < b.FileName
	})
}

func (o *Outcomes) Failed() []*Outcome {
	var out []*Outcome
	for _, item := range o.Items {
		if item.Failed() {
			out = append(out, item)
		}
	}
	return out
}

// Texts returns the extracted text of every successful outcome.
func (o *Outcomes) Texts() []string {
	texts := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if !item.Failed() {
			texts = append(texts, item.Text)
		}
	}
	return texts
}

func (o *Outcomes) Validations() []validation.Result {
	results := make([]validation.Result, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Validation != nil {
			results = append(results, *item.Validation)
		}
	}
	return results
}

// Report lists outcomes best first, one flat entry per document.
func (o *Outcomes) Report() []map[string]string {
	sorted := &Outcomes{Items: append([]*Outcome(nil), o.Items...)}
	sorted.SortByScore()

	report := make([]map[string]string, 0, sorted.Len())
	for _, item := range sorted.Items {
		entry := map[string]string{
			"document": describe(item),
			"id":       item.ID,
		}
		if item.Failed() {
			entry["error"] = item.Error
			report = append(report, entry)
			continue
		}
		entry["score"] = fmt.Sprintf("%.2f", item.Score.FinalScore)
		entry["skills"] = fmt.Sprintf("%.2f", item.Score.RequiredSkills)
		if item.Validation != nil {
			entry["emails"] = strings.Join(item.Validation.Emails, ", ")
			entry["phones"] = strings.Join(item.Validation.Phones, ", ")
			entry["institutions"] = strings.Join(item.Validation.ValidInstitutions, ", ")
		}
		if dates := item.Entities.Dates(); len(dates) > 0 {
			entry["dates"] = strings.Join(dates, ", ")
		}
		report = append(report, entry)
	}
	return report
}

func (o *Outcomes) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "resumes_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ToExcluded converts successful outcomes into exclude file entries.
func (o *Outcomes) ToExcluded() *ExcludedResumes {
	excluded := &ExcludedResumes{}
	for _, item := range o.Items {
		if item.Failed() || item.Digest == "" {
			continue
		}
		name := ""
		if item.Name != nil {
			name = *item.Name
		}
		excluded.Items = append(excluded.Items, &ExcludedResume{
			Digest:     item.Digest,
			FileName:   item.FileName,
			Name:       name,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedResumesFromFile reads an exclude file. An empty file is an empty list.
func GetExcludedResumesFromFile(path string) (*ExcludedResumes, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedResumes{}, nil
	}

	var excluded ExcludedResumes
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds entries whose digest is not present yet.
func (e *ExcludedResumes) Append(s *ExcludedResumes) {
	seen := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		seen[item.Digest] = struct{}{}
	}
	for _, item := range s.Items {
		if _, ok := seen[item.Digest]; ok {
			continue
		}
		seen[item.Digest] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedResumes) Digests() []string {
	digests := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		digests = append(digests, item.Digest)
	}
	return digests
}

func (e *ExcludedResumes) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
