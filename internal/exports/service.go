package exports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/mealplans"
	"github.com/fdg312/meal-planner/internal/userctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanGetter is the part of the meal plan service exports need.
type PlanGetter interface {
	GetPlan(ctx context.Context, id uuid.UUID) (*mealplans.StoredPlan, error)
}

// Service renders stored plans and, with a blob store, uploads them.
type Service struct {
	plans           PlanGetter
	blobStore       blob.Store // nil in local mode
	presignTTL      time.Duration
	publicBaseURL   string
	preferPublicURL bool
	logger          *zap.Logger
}

func NewService(plans PlanGetter, blobStore blob.Store, s3 config.S3Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(s3.PresignTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		plans:           plans,
		blobStore:       blobStore,
		presignTTL:      ttl,
		publicBaseURL:   s3.PublicBaseURL,
		preferPublicURL: s3.PreferPublicURL,
		logger:          logger,
	}
}

// Export renders plan id in the given format.
func (s *Service) Export(ctx context.Context, id uuid.UUID, format string) (*Export, error) {
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	plan, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		if errors.Is(err, mealplans.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !userctx.CanAccess(ctx, plan.UserID) {
		return nil, ErrPlanNotFound
	}

	data, err := Render(plan, format)
	if err != nil {
		return nil, err
	}

	exp := &Export{
		Filename:    fmt.Sprintf("meal-plan-%s.%s", id, format),
		ContentType: contentType,
	}
	if s.blobStore == nil {
		exp.Data = data
		return exp, nil
	}

	key := fmt.Sprintf("exports/%s.%s", id, format)
	size, err := s.blobStore.Put(ctx, blob.Object{
		Key:         key,
		Data:        data,
		ContentType: contentType,
		Filename:    exp.Filename,
	})
	if err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	s.logger.Info("export uploaded", zap.String("key", key), zap.Int64("size", size))

	if s.preferPublicURL && s.publicBaseURL != "" {
		exp.URL = blob.PublicURL(s.publicBaseURL, key)
		return exp, nil
	}

	url, err := s.blobStore.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}
	exp.URL = url
	exp.ExpiresIn = int(s.presignTTL.Seconds())
	return exp, nil
}

var contentTypes = map[string]string{
	FormatPDF: "application/pdf",
	FormatCSV: "text/csv",
}
