package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mwalimu/edusight/core/predict"
	"github.com/mwalimu/edusight/core/student"
)

type assessmentApi struct {
	studentSvc *student.Service
	service    *predict.Service
}

func registerAssessmentAPI(g *echo.Group, studentSvc *student.Service, svc *predict.Service) {
	api := assessmentApi{studentSvc: studentSvc, service: svc}

	g.POST("/assessments", api.assessmentCreate)
	g.POST("/assessments/batch", api.assessmentBatch)
	g.GET("/dashboard", api.dashboard)
}

// assessmentCreate assesses a record posted by the caller without persisting
// it; useful for what-if queries from the counseling UI.
func (api *assessmentApi) assessmentCreate(ctx echo.Context) error {
	data := new(student.NewStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	assessment, err := api.service.Assess(ctx.Request().Context(), data.Student())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assessment)
}

// assessmentBatch assesses every stored student in one call.
func (api *assessmentApi) assessmentBatch(ctx echo.Context) error {
	students, err := api.studentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	assessments, err := api.service.AssessAll(ctx.Request().Context(), students)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assessments)
}

func (api *assessmentApi) dashboard(ctx echo.Context) error {
	students, err := api.studentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	summary, err := api.service.Dashboard(ctx.Request().Context(), students)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}
