// Package grade holds the fixed letter-grade scale (HEC Pakistan) and its quality points.
package grade

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	suggestMax      = 3
	suggestMinRatio = .5
)

// ErrUnknownGrade is returned for labels that are not part of the Scale.
var ErrUnknownGrade = errors.New("unknown grade")

type Grade struct {
	Label        string  `json:"label"`
	QualityPoint float64 `json:"quality_point"`
}

// scale is ordered from the highest to the lowest quality point.
var scale = [...]Grade{
	{Label: "A", QualityPoint: 4.00},
	{Label: "A-", QualityPoint: 3.67},
	{Label: "B+", QualityPoint: 3.33},
	{Label: "B", QualityPoint: 3.00},
	{Label: "B-", QualityPoint: 2.67},
	{Label: "C+", QualityPoint: 2.33},
	{Label: "C", QualityPoint: 2.00},
	{Label: "C-", QualityPoint: 1.67},
	{Label: "D+", QualityPoint: 1.33},
	{Label: "D", QualityPoint: 1.00},
	{Label: "F", QualityPoint: 0.00},
}

var byLabel = func() map[string]float64 {
	m := make(map[string]float64, len(scale))
	for _, g := range scale {
		m[g.Label] = g.QualityPoint
	}
	return m
}()

// All returns a copy of the scale.
func All() []Grade {
	grades := make([]Grade, len(scale))
	copy(grades, scale[:])
	return grades
}

func Labels() []string {
	labels := make([]string, 0, len(scale))
	for _, g := range scale {
		labels = append(labels, g.Label)
	}
	return labels
}

// Lookup returns the quality point of label. Matching is exact.
func Lookup(label string) (float64, error) {
	if qp, ok := byLabel[label]; ok {
		return qp, nil
	}
	return 0, ErrUnknownGrade
}

func IsValid(label string) bool {
	_, ok := byLabel[label]
	return ok
}

// Normalize cleans manually typed labels ("  a- " -> "A-").
func Normalize(label string) string {
	return strings.ToUpper(strings.Join(strings.Fields(label), ""))
}

// Suggest returns up to 3 scale labels close to an unknown label.
func Suggest(label string) []string {
	label = Normalize(label)
	if label == "" {
		return nil
	}
	type match struct {
		label string
		ratio float64
	}
	matches := make([]match, 0, 3)
	for _, g := range scale {
		ratio := difflib.NewMatcher(strings.Split(label, ""), strings.Split(g.Label, "")).Ratio()
		if ratio < suggestMinRatio {
			continue
		}
		// insertion keeps matches sorted by descending ratio, scale order on ties
		i := len(matches)
		for i > 0 && matches[i-1].ratio < ratio {
			i--
		}
		matches = append(matches, match{})
		copy(matches[i+1:], matches[i:])
		matches[i] = match{label: g.Label, ratio: ratio}
	}
	if len(matches) > suggestMax {
		matches = matches[:suggestMax]
	}
	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, m.label)
	}
	return labels
}
