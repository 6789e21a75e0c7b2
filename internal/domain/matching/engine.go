// Package matching scores how well a candidate's skills cover a job's skills.
package matching

import (
	"math"
	"sort"
	"strings"
)

// ComputeMatchPercent returns the share of job skills, as a rounded
// percentage, that contain at least one candidate skill as a case-insensitive
// substring. It is 0 when either list is empty.
func ComputeMatchPercent(candidateSkills, jobSkills []string) int {
	if len(jobSkills) == 0 || len(candidateSkills) == 0 {
		return 0
	}

	needles := normalize(candidateSkills)
	if len(needles) == 0 {
		return 0
	}

	matched := 0
	for _, js := range jobSkills {
		hay := strings.ToLower(js)
		for _, n := range needles {
			if strings.Contains(hay, n) {
				matched++
				break
			}
		}
	}

	return int(math.Round(float64(matched) / float64(len(jobSkills)) * 100))
}

// normalize lowercases skills and drops blanks; an empty needle would match
// every job skill.
func normalize(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Scored pairs an item with its match percent.
type Scored[T any] struct {
	Item  T
	Match int
}

// Rank scores every item and orders them by match descending. Equal scores
// keep their input order.
func Rank[T any](candidateSkills []string, items []T, skillsOf func(T) []string) []Scored[T] {
	out := make([]Scored[T], 0, len(items))
	for _, it := range items {
		out = append(out, Scored[T]{Item: it, Match: ComputeMatchPercent(candidateSkills, skillsOf(it))})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Match > out[j].Match })
	return out
}
