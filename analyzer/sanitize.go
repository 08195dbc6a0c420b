package analyzer

import "resume-match/domain"

// sanitizeRows repairs hallucinated N/A usage in the breakdown. A row that
// is N/A across mark, jd and resume carries no information and is dropped.
// A row marked N/A with only the resume side populated is remapped to "-"
// (not requested by the job description); only the jd side populated becomes
// "x" (required but absent from the resume). Running the pass twice yields
// no further changes.
func sanitizeRows(rows []domain.QualificationRow) []domain.QualificationRow {
	sanitized := make([]domain.QualificationRow, 0, len(rows))
	for _, row := range rows {
		if row.Mark != domain.ValueNotAvailable {
			sanitized = append(sanitized, row)
			continue
		}
		switch {
		case row.JobDesc == domain.ValueNotAvailable && row.Resume == domain.ValueNotAvailable:
			continue
		case row.JobDesc == domain.ValueNotAvailable:
			row.Mark = domain.MarkNotApplicable
		case row.Resume == domain.ValueNotAvailable:
			row.Mark = domain.MarkMissing
		}
		sanitized = append(sanitized, row)
	}
	return sanitized
}
