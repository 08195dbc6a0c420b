package domain

// Mark symbols used by the model inside a qualification row. MarkMatched is
// the canonical checkmark (U+2714 U+FE0F); comparisons must use this exact
// sequence since the model is prompted with it.
const (
	MarkMatched       = "✔️"
	MarkMissing       = "x"
	MarkNotApplicable = "-"
	MarkPartial       = "?"

	// ValueNotAvailable is the sentinel the model places in cells it could
	// not fill from either document.
	ValueNotAvailable = "N/A"
)

// QualificationRow is one line of the model's qualification breakdown. Rows
// are ephemeral: only the rendered report is persisted.
type QualificationRow struct {
	Field               string `json:"field"`
	Mark                string `json:"mark"`
	JobDesc             string `json:"jd"`
	Resume              string `json:"resume"`
	Note                string `json:"note"`
	IsHardSkill         bool   `json:"is_hardskill"`
	IsRequiredByJobDesc bool   `json:"is_required_by_jobdesc"`
}

// QualificationBreakdown is the structured analysis returned by the model.
type QualificationBreakdown struct {
	Rows               []QualificationRow `json:"qualification_analysis"`
	Conclusion         string             `json:"conclusion"`
	AreaForImprovement []string           `json:"area_for_improvement"`
}
