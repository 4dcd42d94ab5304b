package admission

// Grade is a secondary-school certificate grade.
type Grade string

// Grades, best first.
const (
	A1 Grade = "A1"
	B2 Grade = "B2"
	B3 Grade = "B3"
	C4 Grade = "C4"
	C5 Grade = "C5"
	C6 Grade = "C6"
	D7 Grade = "D7"
	E8 Grade = "E8"
	F9 Grade = "F9"
)

var (
	// Grades is the grade scale ordered from best to worst.
	Grades = []Grade{A1, B2, B3, C4, C5, C6, D7, E8, F9}

	gradePoints = map[Grade]int{
		A1: 80,
		B2: 72,
		B3: 64,
		C4: 56,
		C5: 48,
		C6: 40,
		D7: 32,
		E8: 24,
		F9: 0,
	}
)

// Points returns the academic points of the grade, 0 for an unknown grade.
func (g Grade) Points() int {
	return gradePoints[g]
}

// IsCredit reports whether the grade is a credit pass (A1 to C6).
func (g Grade) IsCredit() bool {
	switch g {
	case A1, B2, B3, C4, C5, C6:
		return true
	}
	return false
}

func (g Grade) Valid() bool {
	_, ok := gradePoints[g]
	return ok
}

// Subject is a secondary-school subject.
type Subject string

const (
	Math       Subject = "math"
	English    Subject = "english"
	Physics    Subject = "physics"
	Chemistry  Subject = "chemistry"
	Biology    Subject = "biology"
	Agric      Subject = "agric"
	Economics  Subject = "economics"
	Government Subject = "government"
	Geography  Subject = "geography"
)

// Subjects lists every known subject.
var Subjects = []Subject{Math, English, Physics, Chemistry, Biology, Agric, Economics, Government, Geography}

func (s Subject) Valid() bool {
	for _, sub := range Subjects {
		if s == sub {
			return true
		}
	}
	return false
}

// SubjectGrade is the grade obtained in one subject.
type SubjectGrade struct {
	Subject Subject `json:"subject"`
	Grade   Grade   `json:"grade"`
}

// Transcript maps each subject taken to its grade.
type Transcript map[Subject]Grade

// List returns the transcript entries ordered like Subjects.
func (t Transcript) List() []SubjectGrade {
	list := make([]SubjectGrade, 0, len(t))
	for _, sub := range Subjects {
		if g, ok := t[sub]; ok {
			list = append(list, SubjectGrade{Subject: sub, Grade: g})
		}
	}
	return list
}
