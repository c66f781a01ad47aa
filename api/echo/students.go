package echoapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mwalimu/edusight/core/predict"
	"github.com/mwalimu/edusight/core/student"
)

type studentApi struct {
	service    *student.Service
	predictSvc *predict.Service
}

func registerStudentAPI(g *echo.Group, svc *student.Service, predictSvc *predict.Service) {
	api := studentApi{service: svc, predictSvc: predictSvc}

	sg := g.Group("/students")
	sg.POST("", api.studentCreate)
	sg.GET("", api.studentQuery)
	sg.DELETE("", api.studentDestroyMultiple)

	dg := sg.Group("/:id", ctxStudentMiddleware(svc))
	dg.GET("", api.studentRetrieve)
	dg.PUT("", api.studentUpdate)
	dg.DELETE("", api.studentDestroy)
	dg.GET("/assessment", api.studentAssess)
}

// Handlers

func (api *studentApi) studentCreate(ctx echo.Context) error {
	data := new(student.NewStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	st, err := api.service.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}

	api.predictSvc.InvalidateDashboard(ctx.Request().Context())
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) studentQuery(ctx echo.Context) error {
	filter, err := bindStudentFilter(ctx)
	if err != nil {
		return err
	}
	students, err := api.service.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) studentRetrieve(ctx echo.Context) error {
	st, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) studentUpdate(ctx echo.Context) error {
	st, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errHTTPNotFound
	}

	data := new(student.UpdateStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	st, err := api.service.Update(ctx.Request().Context(), st.ID, *data)
	if err != nil {
		return err
	}

	api.predictSvc.InvalidateDashboard(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) studentDestroy(ctx echo.Context) error {
	st, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errHTTPNotFound
	}

	if err := api.service.Delete(ctx.Request().Context(), st.ID); err != nil {
		return err
	}
	api.predictSvc.InvalidateDashboard(ctx.Request().Context())
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) studentDestroyMultiple(ctx echo.Context) error {
	data := new(DestroyMultipleRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if data.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	ids := make([]uuid.UUID, 0, len(data.IDs))
	for _, raw := range data.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid student id")
		}
		ids = append(ids, id)
	}

	if err := api.service.Delete(ctx.Request().Context(), ids...); err != nil {
		return err
	}
	api.predictSvc.InvalidateDashboard(ctx.Request().Context())
	return ctx.NoContent(http.StatusNoContent)
}

// studentAssess runs the prediction pipeline for one stored student and
// returns the prediction with its derived recommendations.
func (api *studentApi) studentAssess(ctx echo.Context) error {
	st, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errHTTPNotFound
	}

	assessment, err := api.predictSvc.Assess(ctx.Request().Context(), st)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assessment)
}

// ctxStudentMiddleware resolves the :id param and stashes the matching
// student on the context, 404ing early on unknown ids.
func ctxStudentMiddleware(svc *student.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := uuid.Parse(ctx.Param("id"))
			if err != nil {
				return errHTTPNotFound
			}
			st, err := svc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				if err == student.ErrNotFound {
					return errHTTPNotFound
				}
				return err
			}
			ctx.Set("object", st)
			return next(ctx)
		}
	}
}

type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}

func bindStudentFilter(ctx echo.Context) (student.QueryFilter, error) {
	filter := student.QueryFilter{
		Search:      ctx.QueryParam("search"),
		Gender:      ctx.QueryParam("gender"),
		Involvement: ctx.QueryParam("parental_involvement"),
	}
	if raw := ctx.QueryParam("created_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid created_from")
		}
		filter.CreatedFrom = t
	}
	if raw := ctx.QueryParam("created_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid created_to")
		}
		filter.CreatedTo = t
	}
	return filter, nil
}
