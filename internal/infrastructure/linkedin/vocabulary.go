package linkedin

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const maxExtractedSkills = 10

var defaultSkills = []string{
	"JavaScript", "React", "Node.js", "Python", "Java", "C++", "C#",
	"PHP", "Ruby", "Go", "Rust", "Swift", "Kotlin", "TypeScript",
	"Angular", "Vue.js", "Express.js", "Django", "Flask", "Spring",
	"MongoDB", "PostgreSQL", "MySQL", "Redis", "AWS", "Azure", "GCP",
	"Docker", "Kubernetes", "Git", "Jenkins", "CI/CD", "Agile",
	"Machine Learning", "AI", "Data Science", "DevOps", "UI/UX",
}

// Vocabulary is the ordered list of skills recognised in free text.
type Vocabulary struct {
	skills []string
}

func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{skills: append([]string(nil), defaultSkills...)}
}

type vocabularyFile struct {
	Skills []string `yaml:"skills"`
}

// LoadVocabulary reads a YAML document of the form
//
//	skills:
//	  - Go
//	  - PostgreSQL
//
// An empty path returns the default vocabulary.
func LoadVocabulary(path string) (*Vocabulary, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultVocabulary(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill vocabulary: %w", err)
	}
	return ParseVocabulary(b)
}

func ParseVocabulary(b []byte) (*Vocabulary, error) {
	var f vocabularyFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse skill vocabulary: %w", err)
	}
	out := make([]string, 0, len(f.Skills))
	seen := map[string]struct{}{}
	for _, s := range f.Skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("parse skill vocabulary: no skills listed")
	}
	return &Vocabulary{skills: out}, nil
}

func (v *Vocabulary) Skills() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.skills...)
}

// Extract returns the vocabulary entries contained in text, compared
// case-insensitively, in vocabulary order and capped at ten.
func (v *Vocabulary) Extract(text string) []string {
	out := make([]string, 0, maxExtractedSkills)
	if v == nil {
		return out
	}
	lower := strings.ToLower(text)
	for _, s := range v.skills {
		if strings.Contains(lower, strings.ToLower(s)) {
			out = append(out, s)
			if len(out) == maxExtractedSkills {
				break
			}
		}
	}
	return out
}
