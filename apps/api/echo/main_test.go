package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	. "github.com/akademflow/backend/apps/api/echo"
	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/attendance"
	"github.com/akademflow/backend/core/relay"
	"github.com/akademflow/backend/core/routing"
	dedupsvc "github.com/akademflow/backend/services/dedup"
	messagingsvc "github.com/akademflow/backend/services/messaging"
	inmemdb "github.com/akademflow/backend/storage/inmem"
	"github.com/akademflow/backend/testutil"
)

type testApp struct {
	server *Server
	db     *inmemdb.DB
	logger *testutil.Logger
}

func setup(t *testing.T, configure ...func(*core.Config)) testApp {
	t.Helper()
	conf := testutil.NewConfig()
	for _, fn := range configure {
		fn(conf)
	}
	logger := testutil.NewLogger()
	db := inmemdb.Open()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	routes := routing.New(map[string]routing.Route{
		"1-bosqich": {ChatID: "-100123", Topics: map[string]routing.ID{"Iqtisodiyot": "7"}},
	})
	mr := miniredis.RunT(t)
	guard, err := dedupsvc.NewRedisGuard(context.Background(), "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Close() })

	messagingsvc.ResetSentDocuments()
	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		AttendanceSvc:  attendance.NewService(conf, db, validate, logger),
		RelaySvc:       relay.NewService(conf, routes, messagingsvc.NewConsoleServiceMock(), logger, relay.WithGuard(guard)),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	t.Cleanup(func() { _ = server.Close() })
	return testApp{server: server, db: db, logger: logger}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func newUploadRequest(t *testing.T, fields map[string]string, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(): %v", err)
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile(): %v", err)
		}
		_, _ = fw.Write(content)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart.Close(): %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
