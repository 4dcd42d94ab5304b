package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateEligibility(t *testing.T) {
	catalog := DefaultCatalog()
	cs, _ := catalog.Get("computer-science-soc")
	fiveSubjects := Department{ID: "five", Subjects: []Subject{Math, English, Physics, Chemistry, Biology}}

	fourCredits := Transcript{Math: A1, English: B2, Physics: B3, Chemistry: C4}
	withBiology := Transcript{Math: A1, English: B2, Physics: B3, Chemistry: C4, Biology: C5}
	weakChemistry := Transcript{Math: A1, English: B2, Physics: B3, Chemistry: D7, Biology: C5}

	tests := []struct {
		name     string
		aptitude int
		grades   Transcript
		dept     Department
		want     Verdict
	}{
		{
			name: "4 credits is not enough", aptitude: 190, grades: fourCredits, dept: cs,
			want: Verdict{Department: cs.ID, CreditCount: 4, AptitudeOK: true},
		},
		{
			name: "non required credits do not count", aptitude: 190, grades: withBiology, dept: cs,
			want: Verdict{Department: cs.ID, CreditCount: 4, AptitudeOK: true},
		},
		{
			name: "eligible", aptitude: 190, grades: withBiology, dept: fiveSubjects,
			want: Verdict{Department: "five", Eligible: true, CreditCount: 5, AptitudeOK: true, CreditsOK: true},
		},
		{
			name: "aptitude threshold is inclusive", aptitude: 180, grades: withBiology, dept: fiveSubjects,
			want: Verdict{Department: "five", Eligible: true, CreditCount: 5, AptitudeOK: true, CreditsOK: true},
		},
		{
			name: "aptitude too low", aptitude: 179, grades: withBiology, dept: fiveSubjects,
			want: Verdict{Department: "five", CreditCount: 5, CreditsOK: true},
		},
		{
			name: "D7 is not a credit", aptitude: 250, grades: weakChemistry, dept: fiveSubjects,
			want: Verdict{Department: "five", CreditCount: 4, AptitudeOK: true},
		},
		{
			name: "missing grades", aptitude: 250, grades: Transcript{}, dept: fiveSubjects,
			want: Verdict{Department: "five", AptitudeOK: true},
		},
		{
			name: "unknown department", aptitude: 400, grades: withBiology, dept: catalog.Requirement("nonexistent"),
			want: Verdict{Department: "nonexistent", AptitudeOK: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateEligibility(tt.aptitude, tt.grades, tt.dept))
		})
	}
}

func TestRules_Evaluate_unknownDepartmentNeverEligible(t *testing.T) {
	lenient := Rules{MinAptitude: 0, MinCredits: 0}
	v := lenient.Evaluate(400, Transcript{Math: A1}, Department{ID: "nonexistent"})
	assert.False(t, v.Eligible)
	assert.False(t, v.CreditsOK)
	assert.Zero(t, v.CreditCount)
}

func TestRules_Evaluate_configured(t *testing.T) {
	rules := Rules{MinAptitude: 200, MinCredits: 4}
	cs, ok := DefaultCatalog().Get("computer-science-soc")
	require.True(t, ok)

	grades := Transcript{Math: A1, English: B2, Physics: B3, Chemistry: C4}
	assert.True(t, rules.Evaluate(200, grades, cs).Eligible)
	assert.False(t, rules.Evaluate(199, grades, cs).Eligible)
}

func TestFindSupplementaryOptions(t *testing.T) {
	depts := DefaultCatalog().All()
	grades := Transcript{Math: A1, English: B2, Physics: B3, Chemistry: C4, Biology: C5}

	opts := FindSupplementaryOptions(250, grades, depts, "civil-engineering-seet")
	require.Len(t, opts, len(depts)-1)

	wantOrder := []string{
		"computer-science-soc",
		"mechanical-engineering-seet",
		"food-science-tech-saat",
		"software-engineering-soc",
		"information-technology-soc",
	}
	for i, opt := range opts {
		assert.Equal(t, wantOrder[i], opt.Department.ID)
		assert.Equal(t, opt.Department.ID, opt.Verdict.Department)
		assert.Equal(t, 4, opt.Verdict.CreditCount)
		assert.False(t, opt.Verdict.Eligible)
	}

	// lenient rules make the same scan eligible everywhere
	lenient := Rules{MinAptitude: 180, MinCredits: 4}
	for _, opt := range lenient.FindSupplementaryOptions(250, grades, depts, "unknown") {
		assert.True(t, opt.Verdict.Eligible, opt.Department.ID)
	}
	assert.Len(t, lenient.FindSupplementaryOptions(250, grades, depts, "unknown"), len(depts))
}
