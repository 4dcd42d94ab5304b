package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/unimatric/admissions/apps/api/echo"
	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/admission"
	"github.com/unimatric/admissions/core/analysis"
	"github.com/unimatric/admissions/core/user"
	mockanalyzer "github.com/unimatric/admissions/services/analysis/mock"
	emailsvc "github.com/unimatric/admissions/services/email"
	inmemdb "github.com/unimatric/admissions/storage/database/inmem"
	"github.com/unimatric/admissions/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	*Server
	conf     *core.Config
	usrRepo  user.Repository
	admRepo  admission.Repository
	mailSvc  *emailsvc.ConsoleServiceMock
	analyzer analysis.Analyzer
}

type option func(*testApp)

func withAnalyzer(a analysis.Analyzer) option {
	return func(app *testApp) { app.analyzer = a }
}

// setup builds a server on in-memory repositories. Departments require 4 subjects,
// so 4 credits make an applicant eligible.
func setup(t *testing.T, opts ...option) *testApp {
	t.Helper()
	conf := testutil.NewConfig()
	conf.Admission.MinCredits = 4
	testutil.ParseEmailTemplates(conf)
	logger := testutil.NewLogger(conf)
	activity := testutil.NewActivityLogger()
	validate, translator := testutil.NewValidator()

	db := inmemdb.Open()
	app := &testApp{
		conf:     conf,
		usrRepo:  inmemdb.NewUserRepository(db),
		admRepo:  inmemdb.NewAdmissionRepository(db),
		mailSvc:  emailsvc.NewConsoleServiceMock(logger, conf),
		analyzer: mockanalyzer.New(),
	}
	for _, opt := range opts {
		opt(app)
	}

	catalog, err := admission.CatalogFromConfig(conf.Admission)
	require.NoError(t, err)
	admSvc := admission.NewService(app.admRepo, catalog, app.mailSvc, activity, conf)
	require.NoError(t, admSvc.SeedQuotas(context.Background()))

	app.Server = NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		UserSvc:      user.NewService(app.usrRepo, app.mailSvc, activity, conf),
		AdmissionSvc: admSvc,
		AnalysisSvc:  analysis.NewService(app.analyzer, logger, activity),
		Validate:     validate,
		Translator:   translator,
	})
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

func (app *testApp) createApplicant(t *testing.T, id, name, email, gender string) user.User {
	return testutil.CreateUser(t, app.usrRepo, id, user.RoleApplicant, name, email, gender, "Password123", true)
}

func (app *testApp) createAdmin(t *testing.T, id string) user.User {
	return testutil.CreateUser(t, app.usrRepo, id, user.RoleAdmin, "Admin User", id, user.GenderMale, "AdminPass123", true)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(app.conf, GetUserClaims(app.conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
