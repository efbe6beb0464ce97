package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/akademflow/backend/core"
)

const field = "Iqtisodiyot"

func Test_attendanceApi_save(t *testing.T) {
	app := setup(t)
	app.db.Seed("sheet-1", field, [][]string{
		{"N", "F.I.SH"},
		{"1", "Ali Valiyev"},
		{"2", "Hasan Karimov"},
	})

	body := []byte(`{
		"stage": "1-bosqich",
		"field": "Iqtisodiyot",
		"date": "2025-09-07",
		"time": "09:00",
		"submitter": "Ustoz",
		"attendance": {"Ali Valiyev": "keldi", "Vali Aliyev": "sababli"}
	}`)
	req, rec := newRequest(http.MethodPost, "/api/attendance", body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		OK      bool     `json:"ok"`
		Stage   string   `json:"stage"`
		Field   string   `json:"field"`
		Date    string   `json:"date"`
		Time    string   `json:"time"`
		Updated int      `json:"updated"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.OK)
	assert.Equal(t, "1-bosqich", res.Stage)
	assert.Equal(t, field, res.Field)
	assert.Equal(t, "2025-09-07", res.Date)
	assert.Equal(t, "09:00", res.Time)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, []string{"Vali Aliyev"}, res.Missing)

	assert.Equal(t, [][]string{
		{"N", "F.I.SH", "2025-09-07"},
		{"1", "Ali Valiyev", "keldi"},
		{"2", "Hasan Karimov"},
		{"", "Last_Submit", "09:00"},
	}, app.db.Snapshot("sheet-1", field))
}

func Test_attendanceApi_save_errors(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "invalid status",
			body:     []byte(`{"stage": "first", "field": "Iqtisodiyot", "date": "2025-09-07", "time": "09:00", "attendance": {"Vali": "late"}}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"attendance.Vali": "invalid status: \"late\" (student: Vali)"}`),
		},
		{
			name:     "missing field",
			body:     []byte(`{"stage": "first", "date": "2025-09-07", "time": "09:00", "attendance": {"Vali": "keldi"}}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"field": "this field is required"}`),
		},
		{
			name:     "bad date",
			body:     []byte(`{"stage": "first", "field": "Iqtisodiyot", "date": "07.09.2025", "time": "09:00", "attendance": {"Vali": "keldi"}}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"date": "must be a date in YYYY-MM-DD format"}`),
		},
		{
			name:     "unknown stage",
			body:     []byte(`{"stage": "uchinchi", "field": "Iqtisodiyot", "date": "2025-09-07", "time": "09:00", "attendance": {"Vali": "keldi"}}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "unknown stage: uchinchi"}),
		},
		{
			name:     "attendance is not an object",
			body:     []byte(`{"stage": "first", "field": "Iqtisodiyot", "attendance": ["Vali"]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed json",
			body:     []byte(`{"stage": `),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/attendance", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
	assert.Empty(t, app.db.Snapshot("sheet-1", field))
}

func Test_attendanceApi_save_noSpreadsheet(t *testing.T) {
	app := setup(t, func(conf *core.Config) {
		delete(conf.Ledger.Spreadsheets, core.StageTwo)
	})
	body := []byte(`{"stage": "magistr", "field": "Fizika", "date": "2025-09-07", "time": "09:00", "attendance": {"Vali": "keldi"}}`)

	tt := httpTest{
		wantCode: http.StatusInternalServerError,
		wantData: marshalObj(t, httpErr{Error: "ledger store: no spreadsheet configured: 2-bosqich"}),
	}
	req, rec := newRequest(http.MethodPost, "/api/attendance", body)
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
	assert.Len(t, app.logger.Entries("error"), 1)
}

func Test_attendanceApi_export(t *testing.T) {
	app := setup(t)
	app.db.Seed("sheet-1", field, [][]string{
		{"N", "F.I.SH", "2025-09-07"},
		{"1", "Ali Valiyev", "keldi"},
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/attendance/export?specialization=bakalavr&field=Iqtisodiyot")
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename*=UTF-8''Iqtisodiyot.xlsx", rec.Header().Get("Content-Disposition"))

		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		rows, err := f.GetRows(field)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"N", "F.I.SH", "2025-09-07"}, {"1", "Ali Valiyev", "keldi"}}, rows)
	})

	tests := []httpTest{
		{name: "missing field", path: "/api/attendance/export?stage=first", wantCode: http.StatusBadRequest, wantData: []byte(`{"field": "this field is required"}`)},
		{name: "unknown stage", path: "/api/attendance/export?stage=x&field=Iqtisodiyot", wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "unknown stage: x"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
