package matching

import "resume-match/domain"

// Weight applied to soft-skill rows relative to hard-skill rows.
const softSkillWeight = 0.1

// WeightedScore reduces a qualification breakdown to a single score in
// [0, 1]. Required qualifications always count toward the denominator, so a
// missed required row depresses the score; optional qualifications only ever
// reward a match and contribute nothing when unmatched. Soft skills carry a
// tenth of the hard-skill weight in both directions.
func WeightedScore(rows []domain.QualificationRow) float64 {
	var numerator, denominator float64
	for _, row := range rows {
		var matched float64
		if row.Mark == domain.MarkMatched {
			matched = 1
		}
		switch {
		case row.IsRequiredByJobDesc && row.IsHardSkill:
			numerator += matched
			denominator += 1
		case row.IsRequiredByJobDesc:
			numerator += matched * softSkillWeight
			denominator += softSkillWeight
		case row.IsHardSkill:
			numerator += matched
			denominator += matched
		default:
			numerator += matched * softSkillWeight
			denominator += matched * softSkillWeight
		}
	}
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
