package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/admission"
)

// likeEscaper makes the LIKE wildcards match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

const applicationColumns = `id, applicant_id, applicant_name, gender, department, aptitude_score, grades,
	accommodation, aptitude_component, academic_raw, academic_component, bonus, total,
	credit_count, aptitude_ok, credits_ok, status, created_at`

type applicationRow struct {
	ID                string  `db:"id"`
	ApplicantID       string  `db:"applicant_id"`
	ApplicantName     string  `db:"applicant_name"`
	Gender            string  `db:"gender"`
	Department        string  `db:"department"`
	AptitudeScore     int     `db:"aptitude_score"`
	Grades            string  `db:"grades"` // JSON
	Accommodation     bool    `db:"accommodation"`
	AptitudeComponent float64 `db:"aptitude_component"`
	AcademicRaw       int     `db:"academic_raw"`
	AcademicComponent float64 `db:"academic_component"`
	Bonus             float64 `db:"bonus"`
	Total             float64 `db:"total"`
	CreditCount       int     `db:"credit_count"`
	AptitudeOK        bool    `db:"aptitude_ok"`
	CreditsOK         bool    `db:"credits_ok"`
	Status            string  `db:"status"`
	CreatedAt         int64   `db:"created_at"`
}

func toApplicationRow(app admission.Application) (applicationRow, error) {
	grades, err := json.Marshal(app.Grades)
	if err != nil {
		return applicationRow{}, errors.Wrap(err, "encoding grades")
	}
	return applicationRow{
		ID:                app.ID,
		ApplicantID:       app.ApplicantID,
		ApplicantName:     app.ApplicantName,
		Gender:            app.Gender,
		Department:        app.Department,
		AptitudeScore:     app.AptitudeScore,
		Grades:            string(grades),
		Accommodation:     app.Accommodation,
		AptitudeComponent: app.Score.AptitudeComponent,
		AcademicRaw:       app.Score.AcademicRaw,
		AcademicComponent: app.Score.AcademicComponent,
		Bonus:             app.Score.Bonus,
		Total:             app.Score.Total,
		CreditCount:       app.Verdict.CreditCount,
		AptitudeOK:        app.Verdict.AptitudeOK,
		CreditsOK:         app.Verdict.CreditsOK,
		Status:            app.Status,
		CreatedAt:         app.CreatedAt.Unix(),
	}, nil
}

func (r applicationRow) application() (admission.Application, error) {
	var grades admission.Transcript
	if err := json.Unmarshal([]byte(r.Grades), &grades); err != nil {
		return admission.Application{}, errors.Wrapf(err, "decoding grades of %s", r.ID)
	}
	return admission.Application{
		ID:            r.ID,
		ApplicantID:   r.ApplicantID,
		ApplicantName: r.ApplicantName,
		Gender:        r.Gender,
		Department:    r.Department,
		AptitudeScore: r.AptitudeScore,
		Grades:        grades,
		Accommodation: r.Accommodation,
		Score: admission.CompositeScore{
			AptitudeComponent: r.AptitudeComponent,
			AcademicRaw:       r.AcademicRaw,
			AcademicComponent: r.AcademicComponent,
			Bonus:             r.Bonus,
			Total:             r.Total,
		},
		Verdict: admission.Verdict{
			Department:  r.Department,
			Eligible:    r.Status == admission.StatusEligible,
			CreditCount: r.CreditCount,
			AptitudeOK:  r.AptitudeOK,
			CreditsOK:   r.CreditsOK,
		},
		Status:    r.Status,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
	}, nil
}

type quotaRow struct {
	Department string      `db:"department"`
	Capacity   int         `db:"capacity"`
	UpdatedAt  int64       `db:"updated_at"`
	UpdatedBy  null.String `db:"updated_by"`
}

func (r quotaRow) quota() admission.Quota {
	return admission.Quota{
		Department: r.Department,
		Capacity:   r.Capacity,
		UpdatedAt:  time.Unix(r.UpdatedAt, 0).UTC(),
		UpdatedBy:  r.UpdatedBy.String,
	}
}

type admissionRepository struct {
	db *sqlx.DB
}

var _ admission.Repository = (*admissionRepository)(nil) // interface compliance check

func NewAdmissionRepository(db *sqlx.DB) *admissionRepository {
	return &admissionRepository{db: db}
}

func (repo *admissionRepository) CreateApplication(ctx context.Context, app admission.Application) (admission.Application, error) {
	row, err := toApplicationRow(app)
	if err != nil {
		return admission.Application{}, err
	}
	q := repo.db.Rebind(`INSERT INTO applications (` + applicationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = repo.db.ExecContext(ctx, q,
		row.ID, row.ApplicantID, row.ApplicantName, row.Gender, row.Department, row.AptitudeScore, row.Grades,
		row.Accommodation, row.AptitudeComponent, row.AcademicRaw, row.AcademicComponent, row.Bonus, row.Total,
		row.CreditCount, row.AptitudeOK, row.CreditsOK, row.Status, row.CreatedAt)
	if err != nil {
		return admission.Application{}, errors.Wrap(err, "inserting application")
	}
	return row.application()
}

func (repo *admissionRepository) GetApplication(ctx context.Context, id string) (admission.Application, error) {
	var row applicationRow
	q := repo.db.Rebind("SELECT " + applicationColumns + " FROM applications WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return admission.Application{}, admission.ErrApplicationNotFound
		}
		return admission.Application{}, errors.Wrap(err, "selecting application")
	}
	return row.application()
}

func (repo *admissionRepository) QueryApplications(
	ctx context.Context,
	filter *admission.QueryFilter,
	orderings ...core.DBOrdering,
) ([]admission.Application, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.ApplicantID != "" {
			conds = append(conds, "applicant_id = ?")
			args = append(args, filter.ApplicantID)
		}
		if filter.Status != "" {
			conds = append(conds, "status = ?")
			args = append(args, filter.Status)
		}
		if len(filter.Departments) > 0 {
			conds = append(conds, "department IN (?"+strings.Repeat(", ?", len(filter.Departments)-1)+")")
			for _, d := range filter.Departments {
				args = append(args, d)
			}
		}
		if filter.Search != "" {
			search := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
			conds = append(conds, `(LOWER(applicant_name) LIKE ? ESCAPE '\' OR LOWER(applicant_id) LIKE ? ESCAPE '\')`)
			args = append(args, search, search)
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + applicationColumns + " FROM applications")
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	orders := make([]string, 0, len(orderings)+1)
	for _, ord := range core.CleanOrderings(orderings, admission.ApplicationOrderings...) {
		if ord.Field == "applicant_name" {
			ord.Field = "LOWER(applicant_name)"
		}
		orders = append(orders, ord.String())
	}
	orders = append(orders, "id ASC")
	sb.WriteString(" ORDER BY " + strings.Join(orders, ", "))

	var rows []applicationRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(sb.String()), args...); err != nil {
		return nil, errors.Wrap(err, "selecting applications")
	}
	apps := make([]admission.Application, 0, len(rows))
	for _, r := range rows {
		app, err := r.application()
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (repo *admissionRepository) GetQuota(ctx context.Context, department string) (admission.Quota, error) {
	var row quotaRow
	q := repo.db.Rebind("SELECT department, capacity, updated_at, updated_by FROM quotas WHERE department = ?")
	if err := repo.db.GetContext(ctx, &row, q, department); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return admission.Quota{}, admission.ErrQuotaNotFound
		}
		return admission.Quota{}, errors.Wrap(err, "selecting quota")
	}
	return row.quota(), nil
}

func (repo *admissionRepository) QueryQuotas(ctx context.Context) ([]admission.Quota, error) {
	var rows []quotaRow
	q := "SELECT department, capacity, updated_at, updated_by FROM quotas ORDER BY department"
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting quotas")
	}
	quotas := make([]admission.Quota, 0, len(rows))
	for _, r := range rows {
		quotas = append(quotas, r.quota())
	}
	return quotas, nil
}

func (repo *admissionRepository) SaveQuota(ctx context.Context, quota admission.Quota) (admission.Quota, error) {
	row := quotaRow{
		Department: quota.Department,
		Capacity:   quota.Capacity,
		UpdatedAt:  quota.UpdatedAt.Unix(),
		UpdatedBy:  null.NewString(quota.UpdatedBy, quota.UpdatedBy != ""),
	}
	q := repo.db.Rebind(`INSERT INTO quotas (department, capacity, updated_at, updated_by) VALUES (?, ?, ?, ?)
		ON CONFLICT (department) DO UPDATE SET capacity = excluded.capacity,
		updated_at = excluded.updated_at, updated_by = excluded.updated_by`)
	if _, err := repo.db.ExecContext(ctx, q, row.Department, row.Capacity, row.UpdatedAt, row.UpdatedBy); err != nil {
		return admission.Quota{}, errors.Wrap(err, "saving quota")
	}
	return row.quota(), nil
}
