package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/relay"
)

type uploadApi struct {
	svc *relay.Service
}

func registerUploadAPI(g *echo.Group, svc *relay.Service) {
	api := uploadApi{svc: svc}
	g.POST("/upload", api.upload)
}

// Handlers

// upload relays a multipart document (fields: file, stage|specialization, field, fileType, submitter|username).
func (api *uploadApi) upload(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil { // missing file or not a multipart request
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: "this field is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()
	content, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}

	receipt, err := api.svc.Relay(ctx.Request().Context(), relay.Document{
		Filename:  fh.Filename,
		Content:   content,
		Stage:     core.FirstNonEmpty(ctx.FormValue("stage"), ctx.FormValue("specialization")),
		Field:     ctx.FormValue("field"),
		FileType:  ctx.FormValue("fileType"),
		Submitter: core.FirstNonEmpty(ctx.FormValue("submitter"), ctx.FormValue("username")),
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, receipt)
}
