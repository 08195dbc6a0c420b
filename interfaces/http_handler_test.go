package interfaces_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match/domain"
	"resume-match/interfaces"
	"resume-match/repository"
)

type memStore struct {
	mu       sync.Mutex
	users    map[string]*domain.GuestUser
	assets   map[uint]*domain.Asset
	jobs     map[uint]*domain.Job
	matches  []*domain.JobMatch
	analyses map[uint]*repository.AnalysisResult
	nextID   uint
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*domain.GuestUser{},
		assets:   map[uint]*domain.Asset{},
		jobs:     map[uint]*domain.Job{},
		analyses: map[uint]*repository.AnalysisResult{},
		nextID:   1,
	}
}

func (s *memStore) GetOrCreateUserByHash(_ context.Context, hash string) (*domain.GuestUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[hash]; ok {
		return u, nil
	}
	u := &domain.GuestUser{ID: s.nextID, Hash: hash}
	s.nextID++
	s.users[hash] = u
	return u, nil
}

func (s *memStore) CreateJobMatch(_ context.Context, match *domain.JobMatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	match.ID = s.nextID
	match.JobDescHash = repository.HashText(match.JobDescText)
	match.CreatedAt = time.Now()
	s.nextID++
	s.matches = append(s.matches, match)
	return nil
}

func (s *memStore) GetJobMatch(_ context.Context, userID, id uint) (*domain.JobMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == id && m.UserID == userID {
			return m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) GetJobMatchByContent(_ context.Context, userID, resumeID uint, jdText string) (*domain.JobMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.UserID == userID && m.ResumeID == resumeID && m.JobDescText == jdText {
			return m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) ListJobMatches(_ context.Context, userID uint) ([]domain.JobMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.JobMatch
	for _, m := range s.matches {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memStore) GetAnalysis(_ context.Context, _, jobMatchID uint) (*repository.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.analyses[jobMatchID]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) GetUserAsset(_ context.Context, userID, assetID uint, typ domain.AssetType) (*domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[assetID]
	if !ok || a.UserID != userID || a.Type != typ {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (s *memStore) GetJobByID(_ context.Context, id uint) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		return j, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) ListJobs(_ context.Context) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Job
	for _, j := range s.jobs {
		out = append(out, *j)
	}
	return out, nil
}

type fakeDispatcher struct {
	dispatched bool
	err        error
	calls      int
}

func (f *fakeDispatcher) RequestAnalysis(_ context.Context, _, _ uint) (bool, error) {
	f.calls++
	return f.dispatched, f.err
}

type fakeExtractor struct {
	texts map[string]string
}

func (f *fakeExtractor) ExtractFromURL(_ context.Context, url string) (string, error) {
	return f.texts[url], nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) SetNX(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = value
	return true, nil
}

type handlerFixture struct {
	router     *gin.Engine
	store      *memStore
	dispatcher *fakeDispatcher
	cache      *memCache
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := newMemStore()
	store.assets[11] = &domain.Asset{ID: 11, UserID: 1, URL: "https://bucket/resume.txt", Type: domain.AssetResume}
	store.assets[12] = &domain.Asset{ID: 12, UserID: 1, URL: "https://bucket/jd.txt", Type: domain.AssetJobDesc}
	store.jobs[5] = &domain.Job{ID: 5, JobTitle: "Backend Engineer", JobDescription: "golang backend service development"}

	extractor := &fakeExtractor{texts: map[string]string{
		"https://bucket/resume.txt": "golang backend service development experience",
		"https://bucket/jd.txt":     "golang backend service development",
	}}
	dispatcher := &fakeDispatcher{dispatched: true}
	cache := newMemCache()

	router := gin.New()
	interfaces.NewHTTPHandler(router, store, dispatcher, extractor, cache, log)
	return &handlerFixture{router: router, store: store, dispatcher: dispatcher, cache: cache}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, userHash string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if userHash != "" {
		req.Header.Set("X-User-ID", userHash)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestScoreJobMatch_MissingUserHeader(t *testing.T) {
	f := newHandlerFixture(t)
	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreJobMatch_MissingResumeID(t *testing.T) {
	f := newHandlerFixture(t)
	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"job_desc_text": "some jd"}, "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreJobMatch_MissingJobDescSource(t *testing.T) {
	f := newHandlerFixture(t)
	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11}, "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreJobMatch_RawText(t *testing.T) {
	f := newHandlerFixture(t)
	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{
		"resume_id":     11,
		"job_desc_text": "golang backend service development",
		"job_title":     "Go Developer",
	}, "alice")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		JobMatchID uint    `json:"job_match_id"`
		JobTitle   string  `json:"job_title"`
		Score      float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.JobMatchID)
	assert.Equal(t, "Go Developer", resp.JobTitle)
	assert.Greater(t, resp.Score, 0.5)
}

func TestScoreJobMatch_DedupReturnsSameMatch(t *testing.T) {
	f := newHandlerFixture(t)
	body := gin.H{"resume_id": 11, "job_desc_text": "golang backend service development"}

	first := doJSON(t, f.router, http.MethodPost, "/v1/job-match", body, "alice")
	require.Equal(t, http.StatusOK, first.Code)
	second := doJSON(t, f.router, http.MethodPost, "/v1/job-match", body, "alice")
	require.Equal(t, http.StatusOK, second.Code)

	var a, b struct {
		JobMatchID uint `json:"job_match_id"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.JobMatchID, b.JobMatchID)
	assert.Len(t, f.store.matches, 1)
}

func TestScoreJobMatch_FromJobListing(t *testing.T) {
	f := newHandlerFixture(t)
	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11, "job_id": 5}, "alice")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		JobTitle string `json:"job_title"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Backend Engineer", resp.JobTitle)
}

func TestScoreJobMatch_UnknownJob(t *testing.T) {
	f := newHandlerFixture(t)
	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11, "job_id": 999}, "alice")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScoreJobMatch_UnknownResume(t *testing.T) {
	f := newHandlerFixture(t)
	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 404, "job_desc_text": "jd"}, "alice")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScoreJobMatch_FromJobDescAsset(t *testing.T) {
	f := newHandlerFixture(t)
	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11, "job_desc_id": 12}, "alice")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.store.matches, 1)
	assert.Equal(t, "golang backend service development", f.store.matches[0].JobDescText)
}

func TestRequestAnalysis_Accepted(t *testing.T) {
	f := newHandlerFixture(t)
	doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11, "job_desc_text": "jd text"}, "alice")

	matchID := f.store.matches[0].ID
	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match/"+itoa(matchID)+"/analysis", nil, "alice")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"accepted": true}`, rec.Body.String())
	assert.Equal(t, 1, f.dispatcher.calls)
}

func TestRequestAnalysis_UnknownMatch(t *testing.T) {
	f := newHandlerFixture(t)
	f.dispatcher.err = repository.ErrNotFound

	rec := doJSON(t, f.router, http.MethodPost, "/v1/job-match/999/analysis", nil, "alice")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAnalysisResult_NotPersisted(t *testing.T) {
	f := newHandlerFixture(t)
	doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11, "job_desc_text": "jd text"}, "alice")

	rec := doJSON(t, f.router, http.MethodGet, "/v1/job-match/"+itoa(f.store.matches[0].ID)+"/analysis", nil, "alice")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAnalysisResult_Success(t *testing.T) {
	f := newHandlerFixture(t)
	doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11, "job_desc_text": "jd text"}, "alice")

	matchID := f.store.matches[0].ID
	url := "https://bucket.s3.ap-southeast-1.amazonaws.com/analysis/alice/report.pdf"
	f.store.analyses[matchID] = &repository.AnalysisResult{
		Status:   domain.StatusSuccess,
		Score:    0.85,
		AssetURL: &url,
	}

	rec := doJSON(t, f.router, http.MethodGet, "/v1/job-match/"+itoa(matchID)+"/analysis", nil, "alice")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status             string  `json:"status"`
		Score              float64 `json:"score"`
		Verdict            string  `json:"verdict"`
		VerdictDescription string  `json:"verdict_description"`
		AssetURL           *string `json:"asset_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SUCCESS", resp.Status)
	assert.Equal(t, 0.85, resp.Score)
	assert.Equal(t, "STRONG", resp.Verdict)
	assert.NotEmpty(t, resp.VerdictDescription)
	require.NotNil(t, resp.AssetURL)
	assert.Equal(t, url, *resp.AssetURL)
}

func TestGetAnalysisResult_FailureHasNoVerdict(t *testing.T) {
	f := newHandlerFixture(t)
	doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11, "job_desc_text": "jd text"}, "alice")

	matchID := f.store.matches[0].ID
	f.store.analyses[matchID] = &repository.AnalysisResult{Status: domain.StatusFailedRetryable}

	rec := doJSON(t, f.router, http.MethodGet, "/v1/job-match/"+itoa(matchID)+"/analysis", nil, "alice")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FAILED_RETRYABLE", resp["status"])
	assert.NotContains(t, resp, "verdict")
}

func TestGetAnalysisResult_ServedFromCacheAfterFirstHit(t *testing.T) {
	f := newHandlerFixture(t)
	doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11, "job_desc_text": "jd text"}, "alice")

	matchID := f.store.matches[0].ID
	f.store.analyses[matchID] = &repository.AnalysisResult{Status: domain.StatusSuccess, Score: 0.9}

	first := doJSON(t, f.router, http.MethodGet, "/v1/job-match/"+itoa(matchID)+"/analysis", nil, "alice")
	require.Equal(t, http.StatusOK, first.Code)

	// Drop the row; the memoized response must still answer.
	delete(f.store.analyses, matchID)
	second := doJSON(t, f.router, http.MethodGet, "/v1/job-match/"+itoa(matchID)+"/analysis", nil, "alice")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestListJobMatches_ScopedToUser(t *testing.T) {
	f := newHandlerFixture(t)
	doJSON(t, f.router, http.MethodPost, "/v1/job-match", gin.H{"resume_id": 11, "job_desc_text": "jd text"}, "alice")

	rec := doJSON(t, f.router, http.MethodGet, "/v1/job-match", nil, "bob")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"matches": []}`, rec.Body.String())
}

func TestListJobs_Cached(t *testing.T) {
	f := newHandlerFixture(t)

	first := doJSON(t, f.router, http.MethodGet, "/v1/jobs", nil, "")
	require.Equal(t, http.StatusOK, first.Code)

	// Mutate the store; the cached listing must still be served.
	f.store.mu.Lock()
	delete(f.store.jobs, 5)
	f.store.mu.Unlock()

	second := doJSON(t, f.router, http.MethodGet, "/v1/jobs", nil, "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestGetJob(t *testing.T) {
	f := newHandlerFixture(t)

	rec := doJSON(t, f.router, http.MethodGet, "/v1/jobs/5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var job domain.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, "Backend Engineer", job.JobTitle)

	missing := doJSON(t, f.router, http.MethodGet, "/v1/jobs/999", nil, "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
