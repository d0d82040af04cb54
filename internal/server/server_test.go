package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/sodash/internal/dataset"
	"github.com/KaramelBytes/sodash/internal/question"
	"github.com/KaramelBytes/sodash/internal/session"
)

const surveyCSV = `MainBranch,EdLevel,DevType,Country,YearsCode,YearsCodePro,ConvertedCompYearly,OrgSize
I am a developer by profession,Something else,"Developer, back-end",Brazil,10,5,100000,2 to 9 employees
I am a developer by profession,NA,NA,USA,20,15,200000,NA
I am a student who is learning to code,NA,NA,Brazil,2,NA,NA,NA
`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	tbl, err := dataset.Load(strings.NewReader(surveyCSV), "survey.csv", dataset.DefaultOptions())
	require.NoError(t, err)
	sess := session.New(tbl, nil, session.Options{Year: "2021", TopN: 10}, nil)
	app, err := New(sess, Config{}, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestIndexListsQuestions(t *testing.T) {
	srv := newServer(t)
	resp, body := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	html := string(body)
	assert.Contains(t, html, "Stack Overflow Data Analysis")
	assert.Contains(t, html, "survey.csv")
	for _, q := range question.All() {
		assert.Contains(t, html, `/questions/`+q.ID)
	}
}

func TestQuestionPage(t *testing.T) {
	srv := newServer(t)
	resp, body := get(t, srv.URL+"/questions/country")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := string(body)
	assert.Contains(t, html, "Respondents by country")
	assert.Contains(t, html, "sodash-report")
	assert.Contains(t, html, "/api/questions/country/chart.png")

	resp, body = get(t, srv.URL+"/questions/salary")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "professional: 150000.00")

	resp, body = get(t, srv.URL+"/questions/python-share")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "data unavailable")

	resp, _ = get(t, srv.URL+"/questions/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI(t *testing.T) {
	srv := newServer(t)

	resp, body := get(t, srv.URL+"/api/questions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var qs []map[string]any
	require.NoError(t, json.Unmarshal(body, &qs))
	assert.Len(t, qs, len(question.All()))
	assert.Equal(t, "branch", qs[0]["id"])

	resp, body = get(t, srv.URL+"/api/questions/branch")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rep map[string]any
	require.NoError(t, json.Unmarshal(body, &rep))
	assert.Equal(t, "pie-share", rep["kind"])
	assert.NotEmpty(t, rep["id"])

	resp, _ = get(t, srv.URL+"/api/questions/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChartEndpoint(t *testing.T) {
	srv := newServer(t)
	resp, body := get(t, srv.URL+"/api/questions/branch/chart.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
	assert.Equal(t, `inline; filename="percentage-of-respondents-by-activity.png"`, resp.Header.Get("Content-Disposition"))

	resp, _ = get(t, srv.URL+"/api/questions/salary/chart.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}
