package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"resume-match/domain"
	"resume-match/infrastructure"
	"resume-match/matching"
	"resume-match/repository"
)

const (
	userHeader    = "X-User-ID"
	analysisTTL   = 30 * time.Second
	jobListingTTL = 60 * time.Second
)

// Store is the persistence surface the HTTP layer needs.
type Store interface {
	GetOrCreateUserByHash(ctx context.Context, hash string) (*domain.GuestUser, error)
	CreateJobMatch(ctx context.Context, match *domain.JobMatch) error
	GetJobMatch(ctx context.Context, userID, id uint) (*domain.JobMatch, error)
	GetJobMatchByContent(ctx context.Context, userID, resumeID uint, jdText string) (*domain.JobMatch, error)
	ListJobMatches(ctx context.Context, userID uint) ([]domain.JobMatch, error)
	GetAnalysis(ctx context.Context, userID, jobMatchID uint) (*repository.AnalysisResult, error)
	GetUserAsset(ctx context.Context, userID, assetID uint, typ domain.AssetType) (*domain.Asset, error)
	GetJobByID(ctx context.Context, id uint) (*domain.Job, error)
	ListJobs(ctx context.Context) ([]domain.Job, error)
}

// Dispatcher decides whether an analysis task gets enqueued.
type Dispatcher interface {
	RequestAnalysis(ctx context.Context, userID, jobMatchID uint) (bool, error)
}

type Extractor interface {
	ExtractFromURL(ctx context.Context, url string) (string, error)
}

type HTTPHandler struct {
	store      Store
	dispatcher Dispatcher
	extractor  Extractor
	cache      infrastructure.Cache
	log        *logrus.Logger
}

func NewHTTPHandler(router *gin.Engine, store Store, dispatcher Dispatcher, extractor Extractor,
	cache infrastructure.Cache, log *logrus.Logger) {
	h := &HTTPHandler{store: store, dispatcher: dispatcher, extractor: extractor, cache: cache, log: log}

	v1 := router.Group("/v1")
	v1.POST("/job-match", h.ScoreJobMatch)
	v1.GET("/job-match", h.ListJobMatches)
	v1.POST("/job-match/:id/analysis", h.RequestAnalysis)
	v1.GET("/job-match/:id/analysis", h.GetAnalysisResult)
	v1.GET("/jobs", h.ListJobs)
	v1.GET("/jobs/:id", h.GetJob)
}

func (h *HTTPHandler) resolveUser(c *gin.Context) (*domain.GuestUser, bool) {
	hash := strings.TrimSpace(c.GetHeader(userHeader))
	if hash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": userHeader + " header is required"})
		return nil, false
	}
	user, err := h.store.GetOrCreateUserByHash(c.Request.Context(), hash)
	if err != nil {
		h.log.WithError(err).Error("failed to resolve user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return nil, false
	}
	return user, true
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

type scoreJobMatchRequest struct {
	ResumeID    uint   `json:"resume_id"`
	JobID       *uint  `json:"job_id"`
	JobDescID   *uint  `json:"job_desc_id"`
	JobDescText string `json:"job_desc_text"`
	JobTitle    string `json:"job_title"`
}

type jobMatchResponse struct {
	JobMatchID uint      `json:"job_match_id"`
	JobTitle   string    `json:"job_title,omitempty"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoreJobMatch resolves the job description text, dedups against earlier
// submissions of the same content, and scores a new match by cosine
// similarity.
func (h *HTTPHandler) ScoreJobMatch(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	var req scoreJobMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ResumeID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume_id is required"})
		return
	}

	ctx := c.Request.Context()

	jdText, jobTitle, ok := h.resolveJobDesc(c, user, &req)
	if !ok {
		return
	}

	if existing, err := h.store.GetJobMatchByContent(ctx, user.ID, req.ResumeID, jdText); err == nil {
		c.JSON(http.StatusOK, jobMatchResponse{
			JobMatchID: existing.ID,
			JobTitle:   existing.JobTitle,
			Score:      existing.Score,
			CreatedAt:  existing.CreatedAt,
		})
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		h.log.WithError(err).Error("dedup lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check existing matches"})
		return
	}

	resumeAsset, err := h.store.GetUserAsset(ctx, user.ID, req.ResumeID, domain.AssetResume)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "resume not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to load resume asset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load resume"})
		return
	}

	resumeText, err := h.extractor.ExtractFromURL(ctx, resumeAsset.URL)
	if err != nil {
		h.log.WithError(err).Error("failed to extract resume text")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract resume text"})
		return
	}

	match := &domain.JobMatch{
		UserID:      user.ID,
		JobID:       req.JobID,
		ResumeID:    req.ResumeID,
		JobDescID:   req.JobDescID,
		JobTitle:    jobTitle,
		JobDescText: jdText,
		Score:       matching.SimilarityScore(jdText, resumeText),
	}
	if err := h.store.CreateJobMatch(ctx, match); err != nil {
		h.log.WithError(err).Error("failed to create job match")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job match"})
		return
	}

	c.JSON(http.StatusOK, jobMatchResponse{
		JobMatchID: match.ID,
		JobTitle:   match.JobTitle,
		Score:      match.Score,
		CreatedAt:  match.CreatedAt,
	})
}

// resolveJobDesc picks the job description source: a stored listing, an
// uploaded JD asset, or raw text on the request.
func (h *HTTPHandler) resolveJobDesc(c *gin.Context, user *domain.GuestUser, req *scoreJobMatchRequest) (string, string, bool) {
	ctx := c.Request.Context()

	switch {
	case req.JobID != nil:
		job, err := h.store.GetJobByID(ctx, *req.JobID)
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return "", "", false
		}
		if err != nil {
			h.log.WithError(err).Error("failed to load job")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
			return "", "", false
		}
		return job.JobDescription, job.JobTitle, true

	case req.JobDescID != nil:
		asset, err := h.store.GetUserAsset(ctx, user.ID, *req.JobDescID, domain.AssetJobDesc)
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job description not found"})
			return "", "", false
		}
		if err != nil {
			h.log.WithError(err).Error("failed to load job description asset")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job description"})
			return "", "", false
		}
		text, err := h.extractor.ExtractFromURL(ctx, asset.URL)
		if err != nil {
			h.log.WithError(err).Error("failed to extract job description text")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract job description text"})
			return "", "", false
		}
		return text, req.JobTitle, true

	case strings.TrimSpace(req.JobDescText) != "":
		return req.JobDescText, req.JobTitle, true

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "one of job_id, job_desc_id or job_desc_text is required"})
		return "", "", false
	}
}

func (h *HTTPHandler) ListJobMatches(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	matches, err := h.store.ListJobMatches(c.Request.Context(), user.ID)
	if err != nil {
		h.log.WithError(err).Error("failed to list job matches")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list job matches"})
		return
	}

	out := make([]jobMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, jobMatchResponse{
			JobMatchID: m.ID,
			JobTitle:   m.JobTitle,
			Score:      m.Score,
			CreatedAt:  m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"matches": out})
}

// RequestAnalysis asks the worker to dispatch a deep analysis task.
func (h *HTTPHandler) RequestAnalysis(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	dispatched, err := h.dispatcher.RequestAnalysis(c.Request.Context(), user.ID, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job match not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to request analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to request analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": dispatched})
}

type analysisResponse struct {
	Status             string  `json:"status"`
	Score              float64 `json:"score"`
	Verdict            string  `json:"verdict,omitempty"`
	VerdictDescription string  `json:"verdict_description,omitempty"`
	AssetURL           *string `json:"asset_url"`
}

// GetAnalysisResult returns the stored analysis outcome, memoized briefly so
// polling clients do not hammer the database.
func (h *HTTPHandler) GetAnalysisResult(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("analysis:result:%d:%d", user.ID, id)

	if cached, found, err := h.cache.Get(ctx, cacheKey); err == nil && found {
		var resp analysisResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	result, err := h.store.GetAnalysis(ctx, user.ID, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to load analysis result")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis result"})
		return
	}

	resp := analysisResponse{
		Status:   result.Status.String(),
		Score:    result.Score,
		AssetURL: result.AssetURL,
	}
	if result.Status == domain.StatusSuccess {
		verdict := matching.ClassifyVerdict(result.Score)
		resp.Verdict = verdict.Label
		resp.VerdictDescription = verdict.Description
	}

	if result.Status.Terminal() {
		if body, err := json.Marshal(resp); err == nil {
			if err := h.cache.Set(ctx, cacheKey, body, analysisTTL); err != nil {
				h.log.WithError(err).Warn("failed to cache analysis result")
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) ListJobs(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, found, err := h.cache.Get(ctx, "jobs:list"); err == nil && found {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	jobs, err := h.store.ListJobs(ctx)
	if err != nil {
		h.log.WithError(err).Error("failed to list jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	body, err := json.Marshal(gin.H{"jobs": jobs})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode jobs"})
		return
	}
	if err := h.cache.Set(ctx, "jobs:list", body, jobListingTTL); err != nil {
		h.log.WithError(err).Warn("failed to cache job listings")
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (h *HTTPHandler) GetJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	job, err := h.store.GetJobByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to load job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}
	c.JSON(http.StatusOK, job)
}
