package admission

import (
	"github.com/pkg/errors"

	"github.com/unimatric/admissions/core"
)

// WeightsFromConfig reads the score weights; the values are checked by core.AdmissionConfig.Validate.
func WeightsFromConfig(conf core.AdmissionConfig) Weights {
	return Weights{
		AptitudeWeight:     conf.AptitudeWeight,
		AcademicWeight:     conf.AcademicWeight,
		AccommodationBonus: conf.AccommodationBonus,
		AptitudeMax:        conf.AptitudeMax,
		AcademicMax:        conf.AcademicMax,
		BestOf:             conf.BestOf,
	}
}

func RulesFromConfig(conf core.AdmissionConfig) Rules {
	return Rules{MinAptitude: conf.MinAptitude, MinCredits: conf.MinCredits}
}

// CatalogFromConfig builds the configured catalog, or DefaultCatalog when none is configured.
func CatalogFromConfig(conf core.AdmissionConfig) (*Catalog, error) {
	if len(conf.Departments) == 0 {
		return DefaultCatalog(), nil
	}
	depts := make([]Department, 0, len(conf.Departments))
	for _, dc := range conf.Departments {
		subjects := make([]Subject, 0, len(dc.Subjects))
		for _, s := range dc.Subjects {
			subjects = append(subjects, Subject(core.CleanString(s, true /* lower */)))
		}
		depts = append(depts, Department{
			ID:       core.CleanString(dc.ID, true /* lower */),
			Name:     dc.Name,
			School:   dc.School,
			Subjects: subjects,
			Quota:    dc.Quota,
		})
	}
	c, err := NewCatalog(depts...)
	return c, errors.Wrap(err, "loading department catalog")
}
