package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/golfcoachpro/backend/internal/common"
	"github.com/golfcoachpro/backend/internal/logging"
	"github.com/golfcoachpro/backend/internal/server/models"
	"github.com/golfcoachpro/backend/internal/server/queue"
	"github.com/golfcoachpro/backend/internal/server/repositories/repomanager"
	"github.com/golfcoachpro/backend/internal/server/storage"
)

// ObjectStore is the slice of the object-storage wrapper the swing flow
// needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignedGetURL(ctx context.Context, key string) (string, error)
}

// SwingUpload describes one incoming video upload.
type SwingUpload struct {
	FileName      string
	Size          int64
	ContentType   string
	Body          io.Reader
	ClubType      *string
	IntendedShape *string
	Notes         *string
}

// SwingDetail is a swing plus freshly minted download URLs.
type SwingDetail struct {
	Swing        *models.Swing
	VideoURL     string
	ThumbnailURL *string
}

// analysisStubNotes is what the placeholder analyzer reports until the
// real pipeline exists.
const analysisStubNotes = "Analysis stub: replace with real pipeline."

// SwingService owns the swing upload/retrieval/analysis flow.
type SwingService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	store          ObjectStore
	publisher      queue.Publisher
	logger         logging.Logger
	maxUploadBytes int64
	allowedFormats map[string]struct{}
}

func NewSwingService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore,
	publisher queue.Publisher, logger logging.Logger, maxUploadBytes int64, allowedFormats []string) *SwingService {
	allowed := make(map[string]struct{}, len(allowedFormats))
	for _, f := range allowedFormats {
		allowed[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}

	return &SwingService{
		db:             db,
		repomanager:    m,
		store:          store,
		publisher:      publisher,
		logger:         logger.With("module", "swing_service"),
		maxUploadBytes: maxUploadBytes,
		allowedFormats: allowed,
	}
}

// Upload validates the file, stores it, records the swing and enqueues
// analysis. A failed enqueue does not fail the upload: analysis can be
// re-triggered through Analyze.
func (s *SwingService) Upload(ctx context.Context, userID int64, upload SwingUpload) (*models.Swing, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.FileName), "."))
	if _, ok := s.allowedFormats[ext]; !ok {
		return nil, fmt.Errorf("%w: invalid file format %q", common.ErrorValidation, ext)
	}
	if upload.Size > s.maxUploadBytes {
		return nil, common.ErrorFileTooLarge
	}

	key := storage.RandomVideoKey(ext)
	if err := s.store.Upload(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		s.logger.Error(ctx, "video upload failed", "key", key, "error", err.Error())
		return nil, common.ErrorInternal
	}

	size := upload.Size
	swing := &models.Swing{
		UserID:        userID,
		ClubType:      upload.ClubType,
		IntendedShape: upload.IntendedShape,
		Notes:         upload.Notes,
		VideoKey:      key,
		Status:        models.SwingStatusProcessing,
		Metadata:      models.SwingMetadata{FileSizeBytes: &size},
	}

	swing, err := s.repomanager.Swings(s.db).Create(ctx, swing)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.enqueueAnalysis(ctx, swing)

	return swing, nil
}

// Get returns a swing with presigned URLs. Swings of other users look
// exactly like missing ones.
func (s *SwingService) Get(ctx context.Context, userID, swingID int64) (*SwingDetail, error) {
	swing, err := s.ownedSwing(ctx, userID, swingID)
	if err != nil {
		return nil, err
	}

	videoURL, err := s.store.PresignedGetURL(ctx, swing.VideoKey)
	if err != nil {
		return nil, common.ErrorInternal
	}

	detail := &SwingDetail{Swing: swing, VideoURL: videoURL}
	if swing.ThumbnailKey != nil {
		thumbURL, err := s.store.PresignedGetURL(ctx, *swing.ThumbnailKey)
		if err != nil {
			return nil, common.ErrorInternal
		}
		detail.ThumbnailURL = &thumbURL
	}

	return detail, nil
}

// Analyze re-enqueues a swing for analysis and marks it processing.
func (s *SwingService) Analyze(ctx context.Context, userID, swingID int64) (*models.Swing, error) {
	swing, err := s.ownedSwing(ctx, userID, swingID)
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.Swings(s.db).UpdateStatus(ctx, swing.ID, models.SwingStatusProcessing); err != nil {
		return nil, common.ErrorInternal
	}
	swing.Status = models.SwingStatusProcessing

	s.enqueueAnalysis(ctx, swing)

	return swing, nil
}

// ProcessAnalysis is the worker entrypoint for one queued task. The
// analysis itself is a placeholder that records static notes.
func (s *SwingService) ProcessAnalysis(ctx context.Context, task queue.AnalysisTask) error {
	s.logger.Info(ctx, "starting swing analysis", "swing_id", task.SwingID)

	err := s.repomanager.Swings(s.db).SetAnalysis(ctx, task.SwingID, models.SwingStatusCompleted, analysisStubNotes)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Swing deleted between enqueue and processing.
			s.logger.Warn(ctx, "swing vanished before analysis", "swing_id", task.SwingID)
			return nil
		}
		return fmt.Errorf("recording analysis for swing %d: %w", task.SwingID, err)
	}

	s.logger.Info(ctx, "completed swing analysis", "swing_id", task.SwingID)
	return nil
}

func (s *SwingService) ownedSwing(ctx context.Context, userID, swingID int64) (*models.Swing, error) {
	swing, err := s.repomanager.Swings(s.db).GetByID(ctx, swingID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	if swing.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return swing, nil
}

func (s *SwingService) enqueueAnalysis(ctx context.Context, swing *models.Swing) {
	task := queue.AnalysisTask{SwingID: swing.ID, UserID: swing.UserID, EnqueuedAt: time.Now()}
	if err := s.publisher.PublishAnalysis(ctx, task); err != nil {
		s.logger.Warn(ctx, "analysis enqueue failed", "swing_id", swing.ID, "error", err.Error())
	}
}
