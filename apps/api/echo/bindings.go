package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/akademflow/backend/core"
)

// ledgerQuery identifies a ledger worksheet from the query string.
// `specialization` is accepted as an alias of `stage`.
type ledgerQuery struct {
	Stage string
	Field string
}

func (q *ledgerQuery) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	q.Stage = core.FirstNonEmpty(data.Get("stage"), data.Get("specialization"))
	q.Field = core.CleanString(data.Get("field"))
}
