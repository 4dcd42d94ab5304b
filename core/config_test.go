package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmissionConfig_Validate(t *testing.T) {
	valid := AdmissionConfig{
		AptitudeWeight:     75,
		AcademicWeight:     25,
		AccommodationBonus: 5,
		AptitudeMax:        400,
		AcademicMax:        400,
		BestOf:             5,
		MinAptitude:        180,
		MinCredits:         5,
		FairnessThreshold:  0.8,
	}
	tests := []struct {
		name    string
		edit    func(c *AdmissionConfig)
		wantErr bool
	}{
		{name: "defaults", edit: func(c *AdmissionConfig) {}},
		{name: "zero bonus", edit: func(c *AdmissionConfig) { c.AccommodationBonus = 0 }},
		{name: "zero thresholds", edit: func(c *AdmissionConfig) { c.MinAptitude, c.MinCredits = 0, 0 }},
		{name: "zero aptitude max", edit: func(c *AdmissionConfig) { c.AptitudeMax = 0 }, wantErr: true},
		{name: "zero academic max", edit: func(c *AdmissionConfig) { c.AcademicMax = 0 }, wantErr: true},
		{name: "zero best of", edit: func(c *AdmissionConfig) { c.BestOf = 0 }, wantErr: true},
		{name: "negative bonus", edit: func(c *AdmissionConfig) { c.AccommodationBonus = -1 }, wantErr: true},
		{name: "negative credits", edit: func(c *AdmissionConfig) { c.MinCredits = -1 }, wantErr: true},
		{name: "negative threshold", edit: func(c *AdmissionConfig) { c.FairnessThreshold = -0.1 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.edit(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
