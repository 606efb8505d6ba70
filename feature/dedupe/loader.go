package dedupe

import (
	"record-resolver/core/resolve"
	"record-resolver/feature/dedupe/audit"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new dedupe feature. A nil archive disables run
// persistence.
func NewFeature(logger *zap.Logger, cfg resolve.Config, archive *audit.Archive) *Feature {
	svc := NewService(logger, cfg, archive)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "dedupe"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
