package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unimatric/admissions/core/admission"
	"github.com/unimatric/admissions/core/user"
)

type admissionApi struct {
	svc      *admission.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerAdmissionAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *admission.Service,
	userSvc *user.Service,
	validate *validator.Validate,
) {
	api := admissionApi{
		svc:      svc,
		userSvc:  userSvc,
		validate: validate,
	}

	g.GET("/departments", api.departments)

	ag := g.Group("/admission", jwt)
	ag.POST("/score", api.score)
	ag.POST("/eligibility", api.eligibility)
	ag.POST("/supplementary", api.supplementary)
	ag.GET("/fairness", api.fairness)

	ag.POST("/applications", api.apply, applicantMiddleware())
	ag.GET("/applications", api.queryApplications)
	ag.GET("/applications/:id", api.retrieveApplication)

	// admin dashboard
	ag.GET("/quotas", api.quotas, adminMiddleware())
	ag.PUT("/quotas/:id", api.updateQuota, adminMiddleware())
	ag.GET("/monitoring", api.monitoring, adminMiddleware())
}

func (api *admissionApi) bindSubmission(ctx echo.Context) (admission.Submission, error) {
	var sub admission.Submission
	if err := ctx.Bind(&sub); err != nil {
		return sub, errors.Wrap(err, "binding to Submission")
	}
	if err := sub.Validate(api.validate); err != nil {
		return sub, err
	}
	return sub, nil
}

// Handlers

func (api *admissionApi) departments(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Departments())
}

func (api *admissionApi) score(ctx echo.Context) error {
	sub, err := api.bindSubmission(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Score(sub))
}

func (api *admissionApi) eligibility(ctx echo.Context) error {
	sub, err := api.bindSubmission(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Evaluate(sub))
}

func (api *admissionApi) supplementary(ctx echo.Context) error {
	sub, err := api.bindSubmission(ctx)
	if err != nil {
		return err
	}
	opts := api.svc.Supplementary(sub)
	if opts == nil {
		opts = []admission.Option{}
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (api *admissionApi) apply(ctx echo.Context) error {
	sub, err := api.bindSubmission(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	app, err := api.svc.Apply(ctx.Request().Context(), sub, admission.Applicant{
		ID:     usr.ID,
		Name:   usr.FullName,
		Email:  usr.Email,
		Gender: usr.Gender,
	})
	if err != nil {
		return errors.Wrap(err, "applying")
	}

	supp := api.svc.Supplementary(sub)
	if supp == nil {
		supp = []admission.Option{}
	}
	return ctx.JSON(http.StatusCreated, ApplicationResponse{Application: app, Supplementary: supp})
}

// queryApplications lists every application for admins and only their own for applicants.
func (api *admissionApi) queryApplications(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	filter := new(admission.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []admission.Application{})
	}
	if !claims.IsAdmin() {
		filter.ApplicantID = claims.Subject
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	apps, err := api.svc.QueryApplications(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	if apps == nil {
		apps = []admission.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *admissionApi) retrieveApplication(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	app, err := api.svc.GetApplication(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, admission.ErrApplicationNotFound) {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting application")
	}
	if !(claims.IsAdmin() || app.ApplicantID == claims.Subject) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *admissionApi) quotas(ctx echo.Context) error {
	allocs, err := api.svc.Quotas(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying quotas")
	}
	return ctx.JSON(http.StatusOK, allocs)
}

func (api *admissionApi) updateQuota(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data admission.UpdateQuota
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuota")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	alloc, err := api.svc.UpdateQuota(ctx.Request().Context(), ctx.Param("id"), data, claims.Subject)
	if err != nil {
		if errors.Is(err, admission.ErrQuotaNotFound) {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating quota")
	}
	return ctx.JSON(http.StatusOK, alloc)
}

func (api *admissionApi) monitoring(ctx echo.Context) error {
	stats, err := api.svc.Monitoring(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "monitoring departments")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *admissionApi) fairness(ctx echo.Context) error {
	report, err := api.svc.Fairness(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "analyzing fairness")
	}
	return ctx.JSON(http.StatusOK, report)
}

// ApplicationResponse is a stored application along with the applicant's other options.
type ApplicationResponse struct {
	admission.Application
	Supplementary []admission.Option `json:"supplementary"`
}
