package admission

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	errEmptyCatalog       = errors.New("department catalog is empty")
	errNoDepartmentID     = errors.New("department id is required")
	errNoRequiredSubjects = errors.New("department requires no subjects")
)

// Department is a department and the subjects it requires credits in.
type Department struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	School   string    `json:"school"`
	Subjects []Subject `json:"subjects"`
	Quota    int       `json:"default_quota"`
}

// Catalog is the ordered, read-only list of departments.
type Catalog struct {
	departments []Department
	index       map[string]int
}

// NewCatalog validates and indexes departments, keeping their order.
func NewCatalog(departments ...Department) (*Catalog, error) {
	if len(departments) == 0 {
		return nil, errEmptyCatalog
	}
	c := &Catalog{
		departments: make([]Department, 0, len(departments)),
		index:       make(map[string]int, len(departments)),
	}
	for _, dept := range departments {
		dept.ID = strings.TrimSpace(dept.ID)
		if dept.ID == "" {
			return nil, errNoDepartmentID
		}
		if _, ok := c.index[dept.ID]; ok {
			return nil, fmt.Errorf("duplicate department %q", dept.ID)
		}
		if len(dept.Subjects) == 0 {
			return nil, errors.Wrap(errNoRequiredSubjects, dept.ID)
		}
		subjects := make([]Subject, len(dept.Subjects))
		for i, sub := range dept.Subjects {
			if !sub.Valid() {
				return nil, fmt.Errorf("department %q: unknown subject %q", dept.ID, sub)
			}
			subjects[i] = sub
		}
		dept.Subjects = subjects
		if dept.Quota < 0 {
			return nil, fmt.Errorf("department %q: negative quota", dept.ID)
		}
		c.index[dept.ID] = len(c.departments)
		c.departments = append(c.departments, dept)
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on invalid departments.
func MustCatalog(departments ...Department) *Catalog {
	c, err := NewCatalog(departments...)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the built-in departments.
func DefaultCatalog() *Catalog {
	return MustCatalog(defaultDepartments...)
}

var defaultDepartments = []Department{
	{ID: "computer-science-soc", Name: "Computer Science", School: "SOC", Subjects: []Subject{Math, English, Physics, Chemistry}, Quota: 100},
	{ID: "mechanical-engineering-seet", Name: "Mechanical Engineering", School: "SEET", Subjects: []Subject{Math, English, Physics, Chemistry}, Quota: 75},
	{ID: "civil-engineering-seet", Name: "Civil Engineering", School: "SEET", Subjects: []Subject{Math, English, Physics, Chemistry}, Quota: 80},
	{ID: "food-science-tech-saat", Name: "Food Science & Technology", School: "SAAT", Subjects: []Subject{Math, English, Chemistry, Biology}, Quota: 60},
	{ID: "software-engineering-soc", Name: "Software Engineering", School: "SOC", Subjects: []Subject{Math, English, Physics, Chemistry}, Quota: 90},
	{ID: "information-technology-soc", Name: "Information Technology", School: "SOC", Subjects: []Subject{Math, English, Physics, Chemistry}, Quota: 90},
}

// All returns a copy of the departments in catalog order.
func (c *Catalog) All() []Department {
	all := make([]Department, len(c.departments))
	for i, d := range c.departments {
		d.Subjects = append([]Subject(nil), d.Subjects...)
		all[i] = d
	}
	return all
}

func (c *Catalog) Get(id string) (Department, bool) {
	i, ok := c.index[id]
	if !ok {
		return Department{}, false
	}
	d := c.departments[i]
	d.Subjects = append([]Subject(nil), d.Subjects...)
	return d, true
}

// Requirement returns the department, or an empty requirement for an unknown id.
func (c *Catalog) Requirement(id string) Department {
	if d, ok := c.Get(id); ok {
		return d
	}
	return Department{ID: id}
}
