// Package worker runs the async job match analysis pipeline: extract the
// resume, call the model, score the breakdown, render the PDF report and
// persist the outcome.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"resume-match/analyzer"
	"resume-match/domain"
	"resume-match/infrastructure"
	"resume-match/matching"
	"resume-match/report"
	"resume-match/repository"
)

// Store is the persistence surface the worker needs.
type Store interface {
	GetJobMatch(ctx context.Context, userID, id uint) (*domain.JobMatch, error)
	GetJobMatchDetails(ctx context.Context, id uint) (*repository.JobMatchDetails, error)
	GetAnalysisByMatch(ctx context.Context, jobMatchID uint) (*domain.JobMatchAnalysis, error)
	GetUserAsset(ctx context.Context, userID, assetID uint, typ domain.AssetType) (*domain.Asset, error)
	InsertAsset(ctx context.Context, asset *domain.Asset) error
	UpsertAnalysis(ctx context.Context, jobMatchID uint, assetID *uint, status domain.AnalysisStatus) error
	UpdateJobMatchScore(ctx context.Context, id uint, score float64) error
}

type Analyzer interface {
	Analyze(ctx context.Context, jobTitle, jobDescText, resumeText string) (*domain.QualificationBreakdown, error)
}

type Extractor interface {
	ExtractFromURL(ctx context.Context, url string) (string, error)
}

type Uploader interface {
	Upload(ctx context.Context, localPath, key, contentType string) (string, error)
}

type Publisher interface {
	PublishAnalysisTask(ctx context.Context, task infrastructure.AnalysisTask) error
}

type Renderer interface {
	Render(doc *report.Document, path string) error
}

type Worker struct {
	store     Store
	analyzer  Analyzer
	extractor Extractor
	uploader  Uploader
	publisher Publisher
	renderer  Renderer
	cache     infrastructure.Cache
	claimTTL  time.Duration
	tempDir   string
	log       *logrus.Logger
}

func New(store Store, az Analyzer, ex Extractor, up Uploader, pub Publisher, rend Renderer,
	cache infrastructure.Cache, claimTTL time.Duration, tempDir string, log *logrus.Logger) *Worker {
	return &Worker{
		store:     store,
		analyzer:  az,
		extractor: ex,
		uploader:  up,
		publisher: pub,
		renderer:  rend,
		cache:     cache,
		claimTTL:  claimTTL,
		tempDir:   tempDir,
		log:       log,
	}
}

func claimKey(jobMatchID uint) string {
	return fmt.Sprintf("analysis:claim:%d", jobMatchID)
}

// RequestAnalysis decides whether a new analysis task should be dispatched
// for the match. Terminal outcomes never re-enqueue: SUCCESS is accepted
// because a result already exists, FAILED_NON_RETRYABLE is refused. A
// retryable failure or a missing row gets a fresh task, guarded by a
// short-lived claim so concurrent requests enqueue at most one.
func (w *Worker) RequestAnalysis(ctx context.Context, userID, jobMatchID uint) (bool, error) {
	if _, err := w.store.GetJobMatch(ctx, userID, jobMatchID); err != nil {
		return false, err
	}

	row, err := w.store.GetAnalysisByMatch(ctx, jobMatchID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if row != nil && row.StatusCode.Terminal() {
		return row.StatusCode == domain.StatusSuccess, nil
	}

	acquired, err := w.cache.SetNX(ctx, claimKey(jobMatchID), []byte("1"), w.claimTTL)
	if err != nil {
		// Claim is an optimization; a cache outage must not block analysis.
		w.log.WithError(err).Warn("claim check failed, dispatching anyway")
		acquired = true
	}
	if !acquired {
		return false, nil
	}

	if err := w.publisher.PublishAnalysisTask(ctx, infrastructure.AnalysisTask{JobMatchID: jobMatchID}); err != nil {
		if delErr := w.cache.Delete(ctx, claimKey(jobMatchID)); delErr != nil {
			w.log.WithError(delErr).Warn("failed to release claim after publish error")
		}
		return false, fmt.Errorf("publish analysis task: %w", err)
	}
	return true, nil
}

// Run executes one analysis task end to end. Failures are persisted as
// FAILED_NON_RETRYABLE when the model provider rejected the call, otherwise
// FAILED_RETRYABLE.
func (w *Worker) Run(ctx context.Context, jobMatchID uint) error {
	start := time.Now()
	status := domain.StatusFailedRetryable

	defer func() {
		if err := w.cache.Delete(ctx, claimKey(jobMatchID)); err != nil {
			w.log.WithError(err).Warn("failed to release claim")
		}
		w.log.WithFields(logrus.Fields{
			"job_match_id": jobMatchID,
			"status":       status.String(),
			"elapsed":      time.Since(start).String(),
		}).Info("analysis task finished")
	}()

	details, err := w.store.GetJobMatchDetails(ctx, jobMatchID)
	if err != nil {
		return fmt.Errorf("load job match %d: %w", jobMatchID, err)
	}

	assetID, score, err := w.analyze(ctx, details)
	if err == nil {
		err = w.persistSuccess(ctx, jobMatchID, assetID, score)
	}
	if err != nil {
		if analyzer.IsProviderError(err) {
			status = domain.StatusFailedNonRetryable
		}
		if upsertErr := w.store.UpsertAnalysis(ctx, jobMatchID, nil, status); upsertErr != nil {
			w.log.WithError(upsertErr).Error("failed to persist analysis failure")
		}
		return err
	}

	status = domain.StatusSuccess
	return nil
}

// persistSuccess records the terminal SUCCESS row and the weighted score. A
// failure in either write is a processing error like any other: the caller
// downgrades the row to FAILED_RETRYABLE so the match never sits in a
// terminal state with its score lost.
func (w *Worker) persistSuccess(ctx context.Context, jobMatchID, assetID uint, score float64) error {
	if err := w.store.UpsertAnalysis(ctx, jobMatchID, &assetID, domain.StatusSuccess); err != nil {
		return fmt.Errorf("persist analysis success: %w", err)
	}
	if err := w.store.UpdateJobMatchScore(ctx, jobMatchID, score); err != nil {
		return fmt.Errorf("update match score: %w", err)
	}
	return nil
}

func (w *Worker) analyze(ctx context.Context, details *repository.JobMatchDetails) (uint, float64, error) {
	match := details.Match

	resumeAsset, err := w.store.GetUserAsset(ctx, match.UserID, match.ResumeID, domain.AssetResume)
	if err != nil {
		return 0, 0, fmt.Errorf("load resume asset: %w", err)
	}

	resumeText, err := w.extractor.ExtractFromURL(ctx, resumeAsset.URL)
	if err != nil {
		return 0, 0, fmt.Errorf("extract resume text: %w", err)
	}

	breakdown, err := w.analyzer.Analyze(ctx, match.JobTitle, match.JobDescText, resumeText)
	if err != nil {
		return 0, 0, fmt.Errorf("analyze match: %w", err)
	}

	score := matching.WeightedScore(breakdown.Rows)
	verdict := matching.ClassifyVerdict(score)
	doc := report.New(breakdown, match.JobTitle, score, verdict)

	filename := fmt.Sprintf("job-match-analysis-%s.pdf", doc.GeneratedAt.Format("2006-01-02_150405"))
	localPath := filepath.Join(w.tempDir, filename)
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			w.log.WithError(err).WithField("path", localPath).Warn("failed to remove temp report")
		}
	}()

	if err := w.renderer.Render(doc, localPath); err != nil {
		return 0, 0, fmt.Errorf("render report: %w", err)
	}

	key := fmt.Sprintf("analysis/%s/%s", details.UserHash, filename)
	url, err := w.uploader.Upload(ctx, localPath, key, "application/pdf")
	if err != nil {
		return 0, 0, fmt.Errorf("upload report: %w", err)
	}

	resultAsset := domain.Asset{
		UserID: match.UserID,
		URL:    url,
		Type:   domain.AssetAnalysis,
	}
	if err := w.store.InsertAsset(ctx, &resultAsset); err != nil {
		return 0, 0, fmt.Errorf("record report asset: %w", err)
	}

	return resultAsset.ID, score, nil
}
