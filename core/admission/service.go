package admission

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/unimatric/admissions/core"
)

var (
	// errors
	ErrApplicationNotFound = errors.New("application not found")
	ErrQuotaNotFound       = errors.New("quota not found")
	ErrUnknownDepartment   = errors.New("unknown department")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		GetApplication(ctx context.Context, id string) (Application, error)
		// QueryApplications applies AND operation on the set QueryFilter fields.
		QueryApplications(ctx context.Context, filter *QueryFilter, orderings ...core.DBOrdering) ([]Application, error)
		GetQuota(ctx context.Context, department string) (Quota, error)
		QueryQuotas(ctx context.Context) ([]Quota, error)
		SaveQuota(ctx context.Context, q Quota) (Quota, error)
	}

	Service struct {
		repo              Repository
		catalog           *Catalog
		weights           Weights
		rules             Rules
		fairnessThreshold float64
		mailSvc           core.EmailService
		activity          core.ActivityLogger
	}
)

func NewService(
	repo Repository,
	catalog *Catalog,
	mailSvc core.EmailService,
	activity core.ActivityLogger,
	conf *core.Config,
) *Service {
	return &Service{
		repo:              repo,
		catalog:           catalog,
		weights:           WeightsFromConfig(conf.Admission),
		rules:             RulesFromConfig(conf.Admission),
		fairnessThreshold: conf.Admission.FairnessThreshold,
		mailSvc:           mailSvc,
		activity:          activity,
	}
}

func (svc *Service) Weights() Weights { return svc.weights }
func (svc *Service) Rules() Rules     { return svc.rules }

func (svc *Service) Departments() []Department {
	return svc.catalog.All()
}

func (svc *Service) Department(id string) (Department, bool) {
	return svc.catalog.Get(id)
}

// Score computes the composite score of a submission.
func (svc *Service) Score(sub Submission) CompositeScore {
	return svc.weights.ComputeScore(sub.AptitudeScore, sub.Grades.List(), sub.Accommodation)
}

// Evaluate checks a submission against its department; an unknown department is never eligible.
func (svc *Service) Evaluate(sub Submission) Verdict {
	return svc.rules.Evaluate(sub.AptitudeScore, sub.Grades, svc.catalog.Requirement(sub.Department))
}

// Supplementary evaluates a submission against every other department, in catalog order.
func (svc *Service) Supplementary(sub Submission) []Option {
	return svc.rules.FindSupplementaryOptions(sub.AptitudeScore, sub.Grades, svc.catalog.All(), sub.Department)
}

// Assess scores and evaluates a submission without storing it.
func (svc *Service) Assess(sub Submission) Assessment {
	return Assessment{
		Score:         svc.Score(sub),
		Verdict:       svc.Evaluate(sub),
		Supplementary: svc.Supplementary(sub),
	}
}

// Apply assesses and stores a submission for applicant.
func (svc *Service) Apply(ctx context.Context, sub Submission, applicant Applicant) (Application, error) {
	if _, ok := svc.catalog.Get(sub.Department); !ok {
		svc.activity.Warn(core.Activity{
			User:    applicant.ID,
			Role:    "applicant",
			Action:  "submit_scores_fail_department",
			Details: map[string]interface{}{"department": sub.Department},
		})
		return Application{}, core.NewFieldValidationError("department", ErrUnknownDepartment)
	}

	score := svc.Score(sub)
	verdict := svc.Evaluate(sub)
	app := Application{
		ID:            uuid.New().String(),
		ApplicantID:   applicant.ID,
		ApplicantName: applicant.Name,
		Gender:        applicant.Gender,
		Department:    sub.Department,
		AptitudeScore: sub.AptitudeScore,
		Grades:        sub.Grades,
		Accommodation: sub.Accommodation,
		Score:         score,
		Verdict:       verdict,
		Status:        statusOf(verdict),
		CreatedAt:     nowFunc().UTC(),
	}
	app, err := svc.repo.CreateApplication(ctx, app)
	if err != nil {
		svc.activity.Error(core.Activity{
			User:    applicant.ID,
			Role:    "applicant",
			Action:  "submit_scores_fail_db_error",
			Details: map[string]interface{}{"error": err.Error()},
		})
		return Application{}, errors.Wrap(err, "creating application")
	}

	svc.activity.Info(core.Activity{
		User:   applicant.ID,
		Role:   "applicant",
		Action: "calculate_score_success",
		Details: map[string]interface{}{
			"application": app.ID,
			"department":  app.Department,
			"total":       app.Score.Total,
			"eligible":    app.Verdict.Eligible,
		},
	})
	if applicant.Email != "" {
		svc.sendApplicationMail(app, applicant)
	}
	return app, nil
}

func (svc *Service) sendApplicationMail(app Application, applicant Applicant) {
	dept := svc.catalog.Requirement(app.Department)
	deptName := dept.Name
	if deptName == "" {
		deptName = dept.ID
	}
	status := "Eligible"
	if !app.Verdict.Eligible {
		status = "Not eligible"
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: applicant.Name, Address: applicant.Email}},
		Subject:      "Application received",
		TemplateName: "application_received",
		TemplateData: map[string]interface{}{
			"Name":       applicant.Name,
			"Department": deptName,
			"Total":      app.Score.Total,
			"Status":     status,
		},
	})
}

func (svc *Service) GetApplication(ctx context.Context, id string) (Application, error) {
	return svc.repo.GetApplication(ctx, id)
}

// QueryApplications lists the stored applications, newest first unless ordered otherwise.
func (svc *Service) QueryApplications(ctx context.Context, filter *QueryFilter, orderings ...core.DBOrdering) ([]Application, error) {
	if filter != nil {
		filter.Clean()
	}
	orderings = core.CleanOrderings(orderings, ApplicationOrderings...)
	if len(orderings) == 0 {
		orderings = []core.DBOrdering{{Field: "created_at", Ascending: false}}
	}
	return svc.repo.QueryApplications(ctx, filter, orderings...)
}

// SeedQuotas stores the catalog's default capacity of every department without a quota.
func (svc *Service) SeedQuotas(ctx context.Context) error {
	for _, dept := range svc.catalog.All() {
		if _, err := svc.repo.GetQuota(ctx, dept.ID); err == nil {
			continue
		} else if !errors.Is(err, ErrQuotaNotFound) {
			return errors.Wrapf(err, "getting quota %s", dept.ID)
		}
		q := Quota{Department: dept.ID, Capacity: dept.Quota, UpdatedAt: nowFunc().UTC()}
		if _, err := svc.repo.SaveQuota(ctx, q); err != nil {
			return errors.Wrapf(err, "saving quota %s", dept.ID)
		}
	}
	return nil
}

func (svc *Service) quotasByDepartment(ctx context.Context) (map[string]Quota, error) {
	quotas, err := svc.repo.QueryQuotas(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying quotas")
	}
	byDept := make(map[string]Quota, len(quotas))
	for _, q := range quotas {
		byDept[q.Department] = q
	}
	return byDept, nil
}

func (svc *Service) eligibleCounts(ctx context.Context) (map[string]int, error) {
	apps, err := svc.repo.QueryApplications(ctx, &QueryFilter{Status: StatusEligible})
	if err != nil {
		return nil, errors.Wrap(err, "querying eligible applications")
	}
	counts := make(map[string]int)
	for _, app := range apps {
		counts[app.Department]++
	}
	return counts, nil
}

// Quotas returns the allocation of every catalog department.
func (svc *Service) Quotas(ctx context.Context) ([]QuotaAllocation, error) {
	quotas, err := svc.quotasByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	filled, err := svc.eligibleCounts(ctx)
	if err != nil {
		return nil, err
	}

	depts := svc.catalog.All()
	allocs := make([]QuotaAllocation, 0, len(depts))
	for _, dept := range depts {
		q, ok := quotas[dept.ID]
		if !ok {
			q = Quota{Department: dept.ID, Capacity: dept.Quota}
		}
		allocs = append(allocs, allocate(q, dept, filled[dept.ID]))
	}
	return allocs, nil
}

// UpdateQuota sets the capacity of a department.
func (svc *Service) UpdateQuota(ctx context.Context, department string, uq UpdateQuota, updatedBy string) (QuotaAllocation, error) {
	dept, ok := svc.catalog.Get(department)
	if !ok {
		return QuotaAllocation{}, ErrQuotaNotFound
	}
	if uq.Capacity == nil {
		return QuotaAllocation{}, core.NewFieldValidationError("capacity", errors.New("this field is required"))
	}

	q, err := svc.repo.SaveQuota(ctx, Quota{
		Department: dept.ID,
		Capacity:   *uq.Capacity,
		UpdatedAt:  nowFunc().UTC(),
		UpdatedBy:  updatedBy,
	})
	if err != nil {
		return QuotaAllocation{}, errors.Wrap(err, "saving quota")
	}
	filled, err := svc.eligibleCounts(ctx)
	if err != nil {
		return QuotaAllocation{}, err
	}

	svc.activity.Info(core.Activity{
		User:    updatedBy,
		Role:    "admin",
		Action:  "update_quota",
		Details: map[string]interface{}{"department": dept.ID, "capacity": q.Capacity},
	})
	return allocate(q, dept, filled[dept.ID]), nil
}

// Monitoring returns the demand on every catalog department.
func (svc *Service) Monitoring(ctx context.Context) ([]DepartmentStats, error) {
	quotas, err := svc.quotasByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := svc.repo.QueryApplications(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying applications")
	}
	return departmentStats(svc.catalog.All(), quotas, apps), nil
}

// Fairness runs a disparate impact analysis over the stored applications.
func (svc *Service) Fairness(ctx context.Context) (FairnessReport, error) {
	apps, err := svc.repo.QueryApplications(ctx, nil)
	if err != nil {
		return FairnessReport{}, errors.Wrap(err, "querying applications")
	}
	return AnalyzeFairness(apps, svc.fairnessThreshold), nil
}

// Describe returns a one-line summary of an assessment, used by the CLI.
func Describe(a Assessment) string {
	eligible := "not eligible"
	if a.Verdict.Eligible {
		eligible = "eligible"
	}
	return fmt.Sprintf("%s: total %.2f (aptitude %.2f, academic %.2f, bonus %.2f), %d credits, %s",
		a.Verdict.Department, a.Score.Total, a.Score.AptitudeComponent, a.Score.AcademicComponent,
		a.Score.Bonus, a.Verdict.CreditCount, eligible)
}
