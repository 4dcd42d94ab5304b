package admission

import "strings"

// Groups compared in fairness reports
const (
	GroupFemale          = "female"
	GroupMale            = "male"
	GroupAccommodated    = "accommodated"
	GroupNotAccommodated = "not_accommodated"
)

// DepartmentStats is the demand on one department.
type DepartmentStats struct {
	Department     string  `json:"department"`
	Name           string  `json:"name"`
	Applicants     int     `json:"applicants"`
	Eligible       int     `json:"eligible"`
	Capacity       int     `json:"capacity"`
	DemandRatio    float64 `json:"demand_ratio"`
	Oversubscribed bool    `json:"oversubscribed"`
}

// GroupRate is the selection rate of one applicant group.
type GroupRate struct {
	Group         string  `json:"group"`
	Applicants    int     `json:"applicants"`
	Eligible      int     `json:"eligible"`
	SelectionRate float64 `json:"selection_rate"`
}

// ImpactRatio compares the selection rate of a group with a reference group.
// Ratio is nil when the group has no applicant or the reference group has no selected applicant.
type ImpactRatio struct {
	Name      string   `json:"name"`
	Group     string   `json:"group"`
	Reference string   `json:"reference"`
	Ratio     *float64 `json:"ratio"`
	Equitable bool     `json:"equitable"`
}

// FairnessReport is a disparate impact analysis of the eligibility outcomes.
type FairnessReport struct {
	Threshold float64       `json:"threshold"`
	Groups    []GroupRate   `json:"groups"`
	Ratios    []ImpactRatio `json:"ratios"`
}

// AnalyzeFairness computes the selection rate per group and the disparate impact ratios
// female/male and accommodated/not accommodated. A ratio at or above threshold is equitable.
func AnalyzeFairness(apps []Application, threshold float64) FairnessReport {
	rates := map[string]*GroupRate{
		GroupFemale:          {Group: GroupFemale},
		GroupMale:            {Group: GroupMale},
		GroupAccommodated:    {Group: GroupAccommodated},
		GroupNotAccommodated: {Group: GroupNotAccommodated},
	}
	count := func(group string, eligible bool) {
		r := rates[group]
		r.Applicants++
		if eligible {
			r.Eligible++
		}
	}
	for _, app := range apps {
		eligible := app.Status == StatusEligible
		switch app.Gender {
		case GroupFemale, GroupMale:
			count(app.Gender, eligible)
		}
		if app.Accommodation {
			count(GroupAccommodated, eligible)
		} else {
			count(GroupNotAccommodated, eligible)
		}
	}

	report := FairnessReport{Threshold: threshold}
	for _, g := range []string{GroupFemale, GroupMale, GroupAccommodated, GroupNotAccommodated} {
		r := rates[g]
		if r.Applicants > 0 {
			r.SelectionRate = round2(float64(r.Eligible) / float64(r.Applicants))
		}
		report.Groups = append(report.Groups, *r)
	}
	report.Ratios = []ImpactRatio{
		impactRatio("gender", *rates[GroupFemale], *rates[GroupMale], threshold),
		impactRatio("accommodation", *rates[GroupAccommodated], *rates[GroupNotAccommodated], threshold),
	}
	return report
}

func impactRatio(name string, group, reference GroupRate, threshold float64) ImpactRatio {
	ir := ImpactRatio{Name: name, Group: group.Group, Reference: reference.Group}
	if group.Applicants == 0 || reference.Applicants == 0 || reference.Eligible == 0 {
		return ir
	}
	refRate := float64(reference.Eligible) / float64(reference.Applicants)
	rate := float64(group.Eligible) / float64(group.Applicants)
	ratio := round2(rate / refRate)
	ir.Ratio = &ratio
	ir.Equitable = ratio >= threshold
	return ir
}

// departmentStats aggregates the applications per catalog department.
func departmentStats(depts []Department, quotas map[string]Quota, apps []Application) []DepartmentStats {
	index := make(map[string]int, len(depts))
	stats := make([]DepartmentStats, len(depts))
	for i, d := range depts {
		index[d.ID] = i
		capacity := d.Quota
		if q, ok := quotas[d.ID]; ok {
			capacity = q.Capacity
		}
		stats[i] = DepartmentStats{Department: d.ID, Name: d.Name, Capacity: capacity}
	}
	for _, app := range apps {
		i, ok := index[app.Department]
		if !ok {
			continue
		}
		stats[i].Applicants++
		if app.Status == StatusEligible {
			stats[i].Eligible++
		}
	}
	for i := range stats {
		if stats[i].Capacity > 0 {
			stats[i].DemandRatio = round2(float64(stats[i].Applicants) / float64(stats[i].Capacity))
		}
		stats[i].Oversubscribed = stats[i].Applicants > stats[i].Capacity
	}
	return stats
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}
