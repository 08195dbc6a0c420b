// Package repository is the gorm-backed persistence layer for users,
// assets, job matches and analysis rows.
package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resume-match/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// HashText returns the hex sha256 of a job description. The hash narrows
// dedup lookups; callers still compare the full text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (r *Repository) GetOrCreateUserByHash(ctx context.Context, hash string) (*domain.GuestUser, error) {
	var user domain.GuestUser
	err := r.db.WithContext(ctx).
		Where(domain.GuestUser{Hash: hash}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}
	return &user, nil
}

func (r *Repository) CreateJobMatch(ctx context.Context, match *domain.JobMatch) error {
	match.JobDescHash = HashText(match.JobDescText)
	if err := r.db.WithContext(ctx).Create(match).Error; err != nil {
		return fmt.Errorf("create job match: %w", err)
	}
	return nil
}

func (r *Repository) GetJobMatch(ctx context.Context, userID, id uint) (*domain.JobMatch, error) {
	var match domain.JobMatch
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&match, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job match: %w", err)
	}
	return &match, nil
}

// GetJobMatchByContent finds an existing match for the same resume and job
// description text. The hash narrows candidates; the full text comparison
// guards against hash collisions.
func (r *Repository) GetJobMatchByContent(ctx context.Context, userID, resumeID uint, jdText string) (*domain.JobMatch, error) {
	var candidates []domain.JobMatch
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND resume_id = ? AND job_desc_hash = ?", userID, resumeID, HashText(jdText)).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("find job match by content: %w", err)
	}
	for i := range candidates {
		if candidates[i].JobDescText == jdText {
			return &candidates[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *Repository) ListJobMatches(ctx context.Context, userID uint) ([]domain.JobMatch, error) {
	var matches []domain.JobMatch
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("list job matches: %w", err)
	}
	return matches, nil
}

func (r *Repository) UpdateJobMatchScore(ctx context.Context, id uint, score float64) error {
	err := r.db.WithContext(ctx).
		Model(&domain.JobMatch{}).
		Where("id = ?", id).
		Update("score", score).Error
	if err != nil {
		return fmt.Errorf("update job match score: %w", err)
	}
	return nil
}

// JobMatchDetails bundles a match with its owner's hash for the worker.
type JobMatchDetails struct {
	Match    domain.JobMatch
	UserHash string
}

func (r *Repository) GetJobMatchDetails(ctx context.Context, id uint) (*JobMatchDetails, error) {
	var match domain.JobMatch
	err := r.db.WithContext(ctx).First(&match, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job match details: %w", err)
	}

	var user domain.GuestUser
	if err := r.db.WithContext(ctx).First(&user, match.UserID).Error; err != nil {
		return nil, fmt.Errorf("load match owner: %w", err)
	}

	return &JobMatchDetails{Match: match, UserHash: user.Hash}, nil
}

// UpsertAnalysis writes the analysis outcome for a match. The insert is
// atomic on job_match_id: a concurrent retry updates the existing row
// instead of violating the unique index.
func (r *Repository) UpsertAnalysis(ctx context.Context, jobMatchID uint, assetID *uint, status domain.AnalysisStatus) error {
	row := domain.JobMatchAnalysis{
		JobMatchID:    jobMatchID,
		ResultAssetID: assetID,
		StatusCode:    status,
		UpdatedAt:     time.Now(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_match_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"result_asset_id", "status_code", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}
	return nil
}

func (r *Repository) GetAnalysisByMatch(ctx context.Context, jobMatchID uint) (*domain.JobMatchAnalysis, error) {
	var row domain.JobMatchAnalysis
	err := r.db.WithContext(ctx).
		Where("job_match_id = ?", jobMatchID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return &row, nil
}

// AnalysisResult is the API view of a finished or failed analysis.
type AnalysisResult struct {
	Status    domain.AnalysisStatus
	Score     float64
	AssetURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Repository) GetAnalysis(ctx context.Context, userID, jobMatchID uint) (*AnalysisResult, error) {
	if _, err := r.GetJobMatch(ctx, userID, jobMatchID); err != nil {
		return nil, err
	}

	row, err := r.GetAnalysisByMatch(ctx, jobMatchID)
	if err != nil {
		return nil, err
	}

	var match domain.JobMatch
	if err := r.db.WithContext(ctx).First(&match, jobMatchID).Error; err != nil {
		return nil, fmt.Errorf("load match for analysis: %w", err)
	}

	result := &AnalysisResult{
		Status:    row.StatusCode,
		Score:     match.Score,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.ResultAssetID != nil {
		var asset domain.Asset
		if err := r.db.WithContext(ctx).First(&asset, *row.ResultAssetID).Error; err == nil {
			result.AssetURL = &asset.URL
		}
	}

	return result, nil
}

func (r *Repository) InsertAsset(ctx context.Context, asset *domain.Asset) error {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (r *Repository) GetUserAsset(ctx context.Context, userID, assetID uint, typ domain.AssetType) (*domain.Asset, error) {
	var asset domain.Asset
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, typ).
		First(&asset, assetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user asset: %w", err)
	}
	return &asset, nil
}

func (r *Repository) GetJobByID(ctx context.Context, id uint) (*domain.Job, error) {
	var job domain.Job
	err := r.db.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

func (r *Repository) ListJobs(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}
