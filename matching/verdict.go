package matching

// Verdict is a discrete band over the weighted score. Bounds are exclusive
// at the minimum and inclusive at the maximum.
type Verdict struct {
	MinScore    float64
	MaxScore    float64
	Label       string
	Description string
}

var (
	VerdictInvalid = Verdict{
		MinScore:    0.0,
		MaxScore:    0.0,
		Label:       "INVALID",
		Description: "Invalid Score",
	}
	VerdictStrong = Verdict{
		MinScore:    0.8,
		MaxScore:    1.0,
		Label:       "STRONG",
		Description: "You are highly encouraged to apply.",
	}
	VerdictModerate = Verdict{
		MinScore:    0.5,
		MaxScore:    0.8,
		Label:       "MODERATE",
		Description: "You meet some key qualifications but might need improvement.",
	}
	VerdictWeak = Verdict{
		MinScore:    0.0,
		MaxScore:    0.5,
		Label:       "WEAK",
		Description: "Your profile does not strongly align with the job requirements.",
	}
)

var verdictBands = []Verdict{VerdictStrong, VerdictModerate, VerdictWeak}

// ClassifyVerdict maps a weighted score onto its verdict band. A zero score
// is answered WEAK up front: it is not inside the (0, 0.5] band, and a match
// with nothing in its favor should not read as invalid. Anything outside
// (0, 1] is INVALID.
func ClassifyVerdict(score float64) Verdict {
	if score == 0 {
		return VerdictWeak
	}
	for _, band := range verdictBands {
		if band.MinScore < score && score <= band.MaxScore {
			return band
		}
	}
	return VerdictInvalid
}
