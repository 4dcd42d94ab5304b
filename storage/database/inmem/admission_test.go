package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/admission"
)

func TestAdmissionRepository_QueryApplications(t *testing.T) {
	ctx := context.Background()
	repo := NewAdmissionRepository(Open())

	now := time.Now().UTC()
	for _, app := range []admission.Application{
		{ID: "x1", ApplicantID: "11111111aa", ApplicantName: "Zara Bello", Department: "computer-science-soc", CreatedAt: now},
		{ID: "x2", ApplicantID: "22222222bb", ApplicantName: "ada_eze", Department: "computer-science-soc", CreatedAt: now},
		{ID: "x3", ApplicantID: "33333333cc", ApplicantName: "Bola Ade", Department: "computer-science-soc", CreatedAt: now},
	} {
		_, err := repo.CreateApplication(ctx, app)
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		filter    *admission.QueryFilter
		orderings []core.DBOrdering
		want      []string
	}{
		{name: "all", want: []string{"x1", "x2", "x3"}},
		{name: "underscore is literal", filter: &admission.QueryFilter{Search: "a_e"}, want: []string{"x2"}},
		{name: "percent is literal", filter: &admission.QueryFilter{Search: "%"}, want: []string{}},
		{
			name:      "name ignores case",
			orderings: []core.DBOrdering{{Field: "applicant_name", Ascending: true}},
			want:      []string{"x2", "x3", "x1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := repo.QueryApplications(ctx, tt.filter, tt.orderings...)
			require.NoError(t, err)
			got := make([]string, 0, len(apps))
			for _, a := range apps {
				got = append(got, a.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
