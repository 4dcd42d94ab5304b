package sqlxrepos

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/admission"
	"github.com/unimatric/admissions/core/user"
	"github.com/unimatric/admissions/storage/database"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := &core.Config{Database: core.DatabaseConfig{
		Engine: database.EngineSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}}
	db, err := database.Open(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	now := time.Now().UTC().Truncate(time.Second)
	usr := user.User{
		ID:        "12345678ab",
		Role:      user.RoleApplicant,
		FullName:  "John Doe",
		Email:     "john@example.com",
		Gender:    user.GenderMale,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, usr.SetPassword("Password123"))

	created, err := repo.CreateUser(ctx, usr)
	require.NoError(t, err)
	assert.Equal(t, usr, created)

	_, err = repo.CreateUser(ctx, usr)
	assert.Equal(t, user.ErrUserExists, err)

	dupEmail := usr
	dupEmail.ID = "87654321cd"
	_, err = repo.CreateUser(ctx, dupEmail)
	assert.Equal(t, user.ErrEmailExists, err)

	t.Run("get", func(t *testing.T) {
		tests := []struct {
			name    string
			filter  user.GetFilter
			wantErr error
		}{
			{name: "by id", filter: user.GetFilter{ID: usr.ID}},
			{name: "by email", filter: user.GetFilter{Email: usr.Email}},
			{name: "by id or email (id)", filter: user.GetFilter{IDOrEmail: usr.ID}},
			{name: "by id or email (email)", filter: user.GetFilter{IDOrEmail: usr.Email}},
			{name: "by id and role", filter: user.GetFilter{ID: usr.ID, Role: user.RoleApplicant}},
			{name: "wrong role", filter: user.GetFilter{ID: usr.ID, Role: user.RoleAdmin}, wantErr: user.ErrNotFound},
			{name: "unknown", filter: user.GetFilter{ID: "nope"}, wantErr: user.ErrNotFound},
			{name: "empty filter", wantErr: user.ErrNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.GetUser(ctx, tt.filter)
				if tt.wantErr != nil {
					assert.Equal(t, tt.wantErr, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, usr.ID, got.ID)
				assert.NoError(t, got.CheckPassword("Password123"))
				assert.True(t, got.LastLogin.IsZero())
			})
		}
	})

	t.Run("update", func(t *testing.T) {
		upd := usr
		upd.LastLogin = now.Add(time.Minute)
		upd.IsActive = false
		got, err := repo.UpdateUser(ctx, upd)
		require.NoError(t, err)
		assert.Equal(t, upd.LastLogin, got.LastLogin)
		assert.False(t, got.IsActive)

		upd.ID = "nope"
		_, err = repo.UpdateUser(ctx, upd)
		assert.Equal(t, user.ErrNotFound, err)
	})
}

func newApplication(id, applicant, name, dept string, total float64, eligible bool, created time.Time) admission.Application {
	status := admission.StatusNotEligible
	if eligible {
		status = admission.StatusEligible
	}
	return admission.Application{
		ID:            id,
		ApplicantID:   applicant,
		ApplicantName: name,
		Gender:        user.GenderFemale,
		Department:    dept,
		AptitudeScore: 250,
		Grades:        admission.Transcript{admission.Math: admission.A1, admission.English: admission.C6},
		Score:         admission.CompositeScore{AptitudeComponent: 46.88, AcademicRaw: 120, AcademicComponent: 7.5, Total: total},
		Verdict:       admission.Verdict{Department: dept, Eligible: eligible, CreditCount: 2, AptitudeOK: true, CreditsOK: eligible},
		Status:        status,
		CreatedAt:     created,
	}
}

func TestAdmissionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAdmissionRepository(openTestDB(t))

	now := time.Now().UTC().Truncate(time.Second)
	app1 := newApplication("a1", "11111111aa", "Ada Obi", "computer-science-soc", 70, true, now.Add(-2*time.Hour))
	app2 := newApplication("a2", "22222222bb", "Bola Ade", "civil-engineering-seet", 55, false, now.Add(-time.Hour))
	app3 := newApplication("a3", "33333333cc", "Chidi Eze", "computer-science-soc", 62.5, false, now)
	for _, app := range []admission.Application{app1, app2, app3} {
		got, err := repo.CreateApplication(ctx, app)
		require.NoError(t, err)
		assert.Equal(t, app, got)
	}

	got, err := repo.GetApplication(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, app2, got)

	_, err = repo.GetApplication(ctx, "nope")
	assert.Equal(t, admission.ErrApplicationNotFound, err)

	ids := func(apps []admission.Application) []string {
		res := make([]string, 0, len(apps))
		for _, a := range apps {
			res = append(res, a.ID)
		}
		return res
	}
	tests := []struct {
		name      string
		filter    *admission.QueryFilter
		orderings []core.DBOrdering
		want      []string
	}{
		{name: "all", want: []string{"a1", "a2", "a3"}},
		{name: "newest first", orderings: []core.DBOrdering{{Field: "created_at"}}, want: []string{"a3", "a2", "a1"}},
		{name: "by total asc", orderings: []core.DBOrdering{{Field: "total", Ascending: true}}, want: []string{"a2", "a3", "a1"}},
		{name: "unknown ordering ignored", orderings: []core.DBOrdering{{Field: "grades"}}, want: []string{"a1", "a2", "a3"}},
		{name: "department", filter: &admission.QueryFilter{Departments: []string{"computer-science-soc"}}, want: []string{"a1", "a3"}},
		{
			name:   "departments",
			filter: &admission.QueryFilter{Departments: []string{"computer-science-soc", "civil-engineering-seet"}},
			want:   []string{"a1", "a2", "a3"},
		},
		{name: "status", filter: &admission.QueryFilter{Status: admission.StatusEligible}, want: []string{"a1"}},
		{name: "search name", filter: &admission.QueryFilter{Search: "bola"}, want: []string{"a2"}},
		{name: "search id", filter: &admission.QueryFilter{Search: "33333"}, want: []string{"a3"}},
		{name: "applicant", filter: &admission.QueryFilter{ApplicantID: "11111111aa"}, want: []string{"a1"}},
		{
			name:   "combined",
			filter: &admission.QueryFilter{Departments: []string{"computer-science-soc"}, Status: admission.StatusNotEligible},
			want:   []string{"a3"},
		},
		{name: "no match", filter: &admission.QueryFilter{Search: "zzz"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := repo.QueryApplications(ctx, tt.filter, tt.orderings...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(apps))
		})
	}
}

func TestAdmissionRepository_searchAndNameOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewAdmissionRepository(openTestDB(t))

	now := time.Now().UTC().Truncate(time.Second)
	for _, app := range []admission.Application{
		newApplication("x1", "11111111aa", "Zara Bello", "computer-science-soc", 70, true, now),
		newApplication("x2", "22222222bb", "ada_eze", "computer-science-soc", 60, false, now),
		newApplication("x3", "33333333cc", "Bola Ade", "computer-science-soc", 50, false, now),
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

func TestQuotaRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAdmissionRepository(openTestDB(t))

	_, err := repo.GetQuota(ctx, "computer-science-soc")
	assert.Equal(t, admission.ErrQuotaNotFound, err)

	now := time.Now().UTC().Truncate(time.Second)
	q := admission.Quota{Department: "computer-science-soc", Capacity: 100, UpdatedAt: now}
	saved, err := repo.SaveQuota(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, q, saved)

	q.Capacity = 120
	q.UpdatedBy = "admin@futa.edu.ng"
	_, err = repo.SaveQuota(ctx, q)
	require.NoError(t, err)
	_, err = repo.SaveQuota(ctx, admission.Quota{Department: "civil-engineering-seet", Capacity: 80, UpdatedAt: now})
	require.NoError(t, err)

	got, err := repo.GetQuota(ctx, "computer-science-soc")
	require.NoError(t, err)
	assert.Equal(t, q, got)

	quotas, err := repo.QueryQuotas(ctx)
	require.NoError(t, err)
	require.Len(t, quotas, 2)
	assert.Equal(t, "civil-engineering-seet", quotas[0].Department)
	assert.Equal(t, 120, quotas[1].Capacity)
}
