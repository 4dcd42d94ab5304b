package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unimatric/admissions/core/analysis"
)

type analysisApi struct {
	svc      *analysis.Service
	validate *validator.Validate
}

func registerAnalysisAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *analysis.Service,
	validate *validator.Validate,
) {
	api := analysisApi{svc: svc, validate: validate}

	ag := g.Group("/analysis", jwt, adminMiddleware())
	ag.POST("/verify-score", api.verifyScore)
	ag.POST("/eligibility-summary", api.summarizeEligibility)
}

var errHttpAnalysis = echo.NewHTTPError(http.StatusServiceUnavailable, analysis.ErrProcessing.Error())

func (api *analysisApi) verifyScore(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data analysis.ScoreVerificationInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoreVerificationInput")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	res, err := api.svc.VerifyScore(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		if errors.Is(err, analysis.ErrProcessing) {
			return errHttpAnalysis
		}
		return errors.Wrap(err, "verifying score")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *analysisApi) summarizeEligibility(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data analysis.SummaryInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SummaryInput")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	res, err := api.svc.SummarizeEligibility(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		if errors.Is(err, analysis.ErrProcessing) {
			return errHttpAnalysis
		}
		return errors.Wrap(err, "summarizing eligibility")
	}
	return ctx.JSON(http.StatusOK, res)
}
