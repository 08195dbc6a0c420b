package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-match/domain"
)

func row(mark string, required, hard bool) domain.QualificationRow {
	return domain.QualificationRow{
		Field:               "Field",
		Mark:                mark,
		JobDesc:             "jd",
		Resume:              "resume",
		Note:                "note",
		IsHardSkill:         hard,
		IsRequiredByJobDesc: required,
	}
}

func TestWeightedScore_EmptyBreakdown(t *testing.T) {
	assert.Zero(t, WeightedScore(nil))
	assert.Zero(t, WeightedScore([]domain.QualificationRow{}))
}

func TestWeightedScore_RequiredHardAndSoftMatched(t *testing.T) {
	rows := []domain.QualificationRow{
		row(domain.MarkMatched, true, true),
		row(domain.MarkMatched, true, false),
	}
	// (1*1 + 1*0.1) / (1 + 0.1) = 1.0
	assert.InDelta(t, 1.0, WeightedScore(rows), 1e-9)
}

func TestWeightedScore_UnmatchedRequiredDepressesScore(t *testing.T) {
	rows := []domain.QualificationRow{
		row(domain.MarkMatched, true, true),
		row(domain.MarkMissing, true, true),
	}
	assert.InDelta(t, 0.5, WeightedScore(rows), 1e-9)
}

func TestWeightedScore_UnmatchedOptionalIgnored(t *testing.T) {
	matchedOnly := []domain.QualificationRow{
		row(domain.MarkMatched, true, true),
	}
	withOptionalMisses := append([]domain.QualificationRow{
		row(domain.MarkMissing, false, true),
		row(domain.MarkMissing, false, false),
	}, matchedOnly...)

	assert.InDelta(t, WeightedScore(matchedOnly), WeightedScore(withOptionalMisses), 1e-9)
}

func TestWeightedScore_MatchedOptionalRewards(t *testing.T) {
	rows := []domain.QualificationRow{
		row(domain.MarkMissing, true, true),
		row(domain.MarkMatched, false, true),
	}
	// (0 + 1) / (1 + 1) = 0.5
	assert.InDelta(t, 0.5, WeightedScore(rows), 1e-9)
}

func TestWeightedScore_SoftSkillDiscount(t *testing.T) {
	rows := []domain.QualificationRow{
		row(domain.MarkMissing, true, true),
		row(domain.MarkMatched, true, false),
	}
	// (0 + 0.1) / (1 + 0.1) ≈ 0.0909
	assert.InDelta(t, 0.1/1.1, WeightedScore(rows), 1e-9)
}

func TestWeightedScore_OnlyUnmatchedOptionalRows(t *testing.T) {
	rows := []domain.QualificationRow{
		row(domain.MarkMissing, false, true),
		row(domain.MarkNotApplicable, false, false),
	}
	// denominator stays zero, guarded division
	assert.Zero(t, WeightedScore(rows))
}

func TestWeightedScore_PartialMarkDoesNotCount(t *testing.T) {
	rows := []domain.QualificationRow{
		row(domain.MarkPartial, true, true),
		row(domain.MarkMatched, true, true),
	}
	assert.InDelta(t, 0.5, WeightedScore(rows), 1e-9)
}

func TestWeightedScore_AlwaysInUnitRange(t *testing.T) {
	marks := []string{domain.MarkMatched, domain.MarkMissing, domain.MarkPartial, domain.MarkNotApplicable}
	var rows []domain.QualificationRow
	for _, m := range marks {
		for _, req := range []bool{true, false} {
			for _, hard := range []bool{true, false} {
				rows = append(rows, row(m, req, hard))
			}
		}
	}
	score := WeightedScore(rows)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
