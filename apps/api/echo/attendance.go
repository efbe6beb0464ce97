package echoapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/akademflow/backend/core/attendance"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance")
	ag.POST("", api.save)
	ag.GET("/export", api.export)
}

// Handlers

func (api *attendanceApi) save(ctx echo.Context) error {
	var data attendance.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	res, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *attendanceApi) export(ctx echo.Context) error {
	var q ledgerQuery
	q.Bind(ctx)

	buf, err := api.svc.Export(ctx.Request().Context(), q.Stage, q.Field)
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("%s.xlsx", q.Field)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	return ctx.Stream(http.StatusOK, xlsxContentType, buf)
}
