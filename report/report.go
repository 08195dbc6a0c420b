// Package report turns a qualification breakdown into the analysis
// document: an A4-styled HTML intermediate and the paginated PDF artifact.
package report

import (
	"fmt"
	"time"

	"resume-match/domain"
	"resume-match/matching"
)

// Document is the fully resolved analysis report, ready for rendering.
type Document struct {
	JobTitle     string
	GeneratedAt  time.Time
	Rows         []domain.QualificationRow
	Conclusion   string
	Score        float64
	Verdict      matching.Verdict
	Improvements []string
}

func New(breakdown *domain.QualificationBreakdown, jobTitle string, score float64, verdict matching.Verdict) *Document {
	return &Document{
		JobTitle:     jobTitle,
		GeneratedAt:  time.Now().UTC(),
		Rows:         breakdown.Rows,
		Conclusion:   breakdown.Conclusion,
		Score:        score,
		Verdict:      verdict,
		Improvements: breakdown.AreaForImprovement,
	}
}

// generatedTime formats the metadata timestamp with an ordinal day, e.g.
// "January 24th 2026. 15:04:05. (UTC)".
func (d *Document) generatedTime() string {
	ts := d.GeneratedAt.UTC()
	return fmt.Sprintf("%s %s %d. %02d:%02d:%02d. (UTC)",
		ts.Month().String(), ordinalDay(ts.Day()), ts.Year(),
		ts.Hour(), ts.Minute(), ts.Second())
}

func ordinalDay(day int) string {
	suffix := "th"
	if day%100 < 10 || day%100 > 20 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

func (d *Document) scorePercent() string {
	return fmt.Sprintf("%.2f%%", d.Score*100)
}

func requiredMark(row domain.QualificationRow) string {
	if row.IsRequiredByJobDesc {
		return "✔"
	}
	return "x"
}

func skillCategory(row domain.QualificationRow) string {
	if row.IsHardSkill {
		return "Hard Skill"
	}
	return "Soft Skill"
}
