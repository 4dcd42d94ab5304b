package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/admission"
)

type admissionRepository struct {
	apps   *applicationTable
	quotas *quotaTable
}

var _ admission.Repository = (*admissionRepository)(nil) // interface compliance check

func NewAdmissionRepository(db *DB) *admissionRepository {
	return &admissionRepository{apps: db.application, quotas: db.quota}
}

func (repo *admissionRepository) CreateApplication(_ context.Context, app admission.Application) (admission.Application, error) {
	repo.apps.mutex.Lock()
	defer repo.apps.mutex.Unlock()

	app.Grades = copyTranscript(app.Grades)
	repo.apps.table[app.ID] = &app
	return app, nil
}

func (repo *admissionRepository) GetApplication(_ context.Context, id string) (admission.Application, error) {
	repo.apps.mutex.RLock()
	defer repo.apps.mutex.RUnlock()

	if app, ok := repo.apps.table[id]; ok {
		res := *app
		res.Grades = copyTranscript(app.Grades)
		return res, nil
	}
	return admission.Application{}, admission.ErrApplicationNotFound
}

func (repo *admissionRepository) QueryApplications(
	_ context.Context,
	filter *admission.QueryFilter,
	orderings ...core.DBOrdering,
) ([]admission.Application, error) {
	repo.apps.mutex.RLock()
	defer repo.apps.mutex.RUnlock()

	apps := make([]admission.Application, 0, len(repo.apps.table))
	for _, app := range repo.apps.table {
		if filter.Match(*app) {
			res := *app
			res.Grades = copyTranscript(app.Grades)
			apps = append(apps, res)
		}
	}
	sortApplications(apps, orderings)
	return apps, nil
}

func (repo *admissionRepository) GetQuota(_ context.Context, department string) (admission.Quota, error) {
	repo.quotas.mutex.RLock()
	defer repo.quotas.mutex.RUnlock()

	if q, ok := repo.quotas.table[department]; ok {
		return *q, nil
	}
	return admission.Quota{}, admission.ErrQuotaNotFound
}

func (repo *admissionRepository) QueryQuotas(_ context.Context) ([]admission.Quota, error) {
	repo.quotas.mutex.RLock()
	defer repo.quotas.mutex.RUnlock()

	quotas := make([]admission.Quota, 0, len(repo.quotas.table))
	for _, q := range repo.quotas.table {
		quotas = append(quotas, *q)
	}
	sort.Slice(quotas, func(i, j int) bool { return quotas[i].Department < quotas[j].Department })
	return quotas, nil
}

func (repo *admissionRepository) SaveQuota(_ context.Context, q admission.Quota) (admission.Quota, error) {
	repo.quotas.mutex.Lock()
	defer repo.quotas.mutex.Unlock()

	repo.quotas.table[q.Department] = &q
	return q, nil
}

func copyTranscript(t admission.Transcript) admission.Transcript {
	if t == nil {
		return nil
	}
	res := make(admission.Transcript, len(t))
	for s, g := range t {
		res[s] = g
	}
	return res
}

// compareApplications returns -1, 0 or 1 as a is before, equal to or after b on field, ascending.
func compareApplications(a, b admission.Application, field string) int {
	cmpFloat := func(x, y float64) int {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	switch field {
	case "total":
		return cmpFloat(a.Score.Total, b.Score.Total)
	case "aptitude_score":
		return cmpFloat(float64(a.AptitudeScore), float64(b.AptitudeScore))
	case "applicant_name":
		return strings.Compare(strings.ToLower(a.ApplicantName), strings.ToLower(b.ApplicantName))
	case "department":
		return strings.Compare(a.Department, b.Department)
	case "created_at":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
	}
	return 0
}

// sortApplications orders apps by orderings, then by id for a stable result.
func sortApplications(apps []admission.Application, orderings []core.DBOrdering) {
	sort.SliceStable(apps, func(i, j int) bool {
		for _, ord := range orderings {
			c := compareApplications(apps[i], apps[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return apps[i].ID < apps[j].ID
	})
}
