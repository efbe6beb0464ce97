package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestServer_home(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{name: "home", method: http.MethodGet, path: "/", wantCode: http.StatusOK, wantData: marshalObj(t, echo.Map{"ok": true, "app": "AkademFlow"})},
		{name: "trailing slash", method: http.MethodGet, path: "/ping/", wantCode: http.StatusOK, wantData: marshalObj(t, echo.Map{"ok": true})},
		{name: "ping", method: http.MethodGet, path: "/ping", wantCode: http.StatusOK, wantData: marshalObj(t, echo.Map{"ok": true})},
		{name: "not found", method: http.MethodGet, path: "/nope", wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "Not Found"})},
		{name: "method not allowed", method: http.MethodDelete, path: "/api/upload", wantCode: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
