package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-screener/internal/resume"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/stats"
)

const janeResume = `Jane Doe
data analyst
jane.doe@example.com
+1 555 123 4567
Skills: Python, SQL
Education: Stanford University, 2015`

type stubSummarizer struct {
	summary string
	err     error
	calls   int
}

func (s *stubSummarizer) Summarize(context.Context, string) (string, error) {
	s.calls++
	return s.summary, s.err
}

func newTestServer(opts Options) *Server {
	return New(screening.New(nil, screening.Options{}), nil, opts)
}

func uploadRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resumes", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// upload screens jane.txt and a broken file and returns their ids.
func upload(t *testing.T, s *Server) (jane, broken string) {
	t.Helper()

	rec := do(s, uploadRequest(t,
		map[string]string{"title": "Data Analyst", "skills": "Python, SQL"},
		map[string]string{"jane.txt": janeResume, "broken.rtf": "{\\rtf1}"},
	))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp screenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Resumes, 2)
	assert.Equal(t, []string{"python", "sql"}, resp.Job.Skills)

	for _, o := range resp.Resumes {
		switch o.FileName {
		case "jane.txt":
			jane = o.ID
			require.NotNil(t, o.Score)
			assert.Equal(t, 10.0, o.Score.FinalScore)
			require.NotNil(t, o.Name)
			assert.Equal(t, "Jane Doe", *o.Name)
		case "broken.rtf":
			broken = o.ID
			assert.NotEmpty(t, o.Error)
			assert.Nil(t, o.Score)
		}
	}
	require.NotEmpty(t, jane)
	require.NotEmpty(t, broken)
	return jane, broken
}

func TestUploadListGetDelete(t *testing.T) {
	s := newTestServer(Options{})
	jane, broken := upload(t, s)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/resumes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []screening.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, jane, list[0].ID)
	assert.Equal(t, broken, list[1].ID)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/resumes/"+jane, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jane.doe@example.com")

	rec = do(s, httptest.NewRequest(http.MethodDelete, "/api/resumes/"+jane, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/resumes/"+jane, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodDelete, "/api/resumes/"+jane, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadWithoutFiles(t *testing.T) {
	s := newTestServer(Options{})
	rec := do(s, uploadRequest(t, map[string]string{"skills": "go"}, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsInvalidJob(t *testing.T) {
	s := newTestServer(Options{})
	rec := do(s, uploadRequest(t,
		map[string]string{"title": strings.Repeat("x", 300)},
		map[string]string{"jane.txt": janeResume},
	))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadDefaultJobNegativeThreshold(t *testing.T) {
	s := newTestServer(Options{DefaultJob: resume.JobRequirements{Skills: []string{"python"}, MinSkills: -1}})
	rec := do(s, uploadRequest(t, nil, map[string]string{"jane.txt": janeResume}))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRescore(t *testing.T) {
	s := newTestServer(Options{})
	jane, broken := upload(t, s)

	form := url.Values{"skills": {"kubernetes"}}
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/"+jane+"/score", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp rescoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5.0, resp.Score.FinalScore)

	stored := do(s, httptest.NewRequest(http.MethodGet, "/api/resumes/"+jane, nil))
	var o screening.Outcome
	require.NoError(t, json.Unmarshal(stored.Body.Bytes(), &o))
	assert.Equal(t, 10.0, o.Score.FinalScore)

	rec = do(s, httptest.NewRequest(http.MethodPost, "/api/resumes/"+broken+"/score", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodPost, "/api/resumes/missing/score", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummary(t *testing.T) {
	plain := newTestServer(Options{})
	jane, _ := upload(t, plain)
	rec := do(plain, httptest.NewRequest(http.MethodGet, "/api/resumes/"+jane+"/summary", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	summarizer := &stubSummarizer{summary: "Data analyst with Python and SQL."}
	s := newTestServer(Options{Summarizer: summarizer})
	jane, broken := upload(t, s)

	for i := 0; i < 2; i++ {
		rec = do(s, httptest.NewRequest(http.MethodGet, "/api/resumes/"+jane+"/summary", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Data analyst with Python and SQL.")
	}
	assert.Equal(t, 1, summarizer.calls)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/resumes/"+broken+"/summary", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	failing := newTestServer(Options{Summarizer: &stubSummarizer{err: errors.New("quota")}})
	jane, _ = upload(t, failing)
	rec = do(failing, httptest.NewRequest(http.MethodGet, "/api/resumes/"+jane+"/summary", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestStatsAndEmails(t *testing.T) {
	s := newTestServer(Options{})
	upload(t, s)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var counts stats.Counts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts.Documents)
	assert.Equal(t, 1, counts.Skills["sql"])
	assert.Equal(t, 1, counts.ProgrammingLanguages["python"])
	assert.Equal(t, 1, counts.LengthHistogram[stats.Bucket0To100])

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/emails", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane.doe@example.com\n", rec.Body.String())
	assert.Equal(t, `attachment; filename="emails.txt"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}

func TestDefaultJobUsedWithoutFormFields(t *testing.T) {
	s := newTestServer(Options{})
	s.defaultJob.Skills = []string{"Kubernetes"}

	rec := do(s, uploadRequest(t, nil, map[string]string{"jane.txt": janeResume}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp screenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"kubernetes"}, resp.Job.Skills)
	require.Len(t, resp.Resumes, 1)
	assert.Equal(t, 5.0, resp.Resumes[0].Score.FinalScore)
}
