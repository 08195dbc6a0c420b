package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-match/domain"
)

func naRow(mark, jd, resume string) domain.QualificationRow {
	return domain.QualificationRow{Field: "F", Mark: mark, JobDesc: jd, Resume: resume}
}

func TestSanitizeRows(t *testing.T) {
	tests := []struct {
		name string
		in   []domain.QualificationRow
		want []domain.QualificationRow
	}{
		{
			name: "all NA row dropped",
			in:   []domain.QualificationRow{naRow("N/A", "N/A", "N/A")},
			want: []domain.QualificationRow{},
		},
		{
			name: "resume only remapped to dash",
			in:   []domain.QualificationRow{naRow("N/A", "N/A", "Team lead experience")},
			want: []domain.QualificationRow{naRow("-", "N/A", "Team lead experience")},
		},
		{
			name: "jd only remapped to x",
			in:   []domain.QualificationRow{naRow("N/A", "Kubernetes", "N/A")},
			want: []domain.QualificationRow{naRow("x", "Kubernetes", "N/A")},
		},
		{
			name: "regular rows untouched",
			in: []domain.QualificationRow{
				naRow("✔️", "Go", "Go"),
				naRow("x", "Rust", "N/A"),
			},
			want: []domain.QualificationRow{
				naRow("✔️", "Go", "Go"),
				naRow("x", "Rust", "N/A"),
			},
		},
		{
			name: "NA mark with both sides populated kept as is",
			in:   []domain.QualificationRow{naRow("N/A", "Go", "Go")},
			want: []domain.QualificationRow{naRow("N/A", "Go", "Go")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeRows(tt.in))
		})
	}
}

func TestSanitizeRows_Idempotent(t *testing.T) {
	in := []domain.QualificationRow{
		naRow("N/A", "N/A", "N/A"),
		naRow("N/A", "N/A", "Mentoring"),
		naRow("N/A", "Kubernetes", "N/A"),
		naRow("✔️", "Go", "Go"),
	}
	once := sanitizeRows(in)
	twice := sanitizeRows(once)
	assert.Equal(t, once, twice)
}
