package deps

import (
	"context"

	"github.com/bwise1/travelog/config"
	"github.com/bwise1/travelog/internal/db"
	"github.com/bwise1/travelog/internal/grouping"
	stadiamaps "github.com/bwise1/travelog/internal/http/stadia_maps"
	"github.com/bwise1/travelog/internal/narrative"
	"github.com/bwise1/travelog/internal/session"
	"github.com/bwise1/travelog/util/storage"
	"github.com/bwise1/travelog/util/websockets"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Geocoder names the place at a coordinate.
type Geocoder interface {
	PlaceName(ctx context.Context, lat, lon float64) (string, error)
}

// Storyteller writes the trip story and per-group captions.
type Storyteller interface {
	TripLog(ctx context.Context, summaries []grouping.Summary) (string, error)
	Captions(ctx context.Context, summaries []grouping.Summary) (map[string]string, error)
}

// PhotoUploader stores an image file and returns its hosted URL.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, file interface{}, tripFolder, publicID string) (string, error)
}

type Dependencies struct {
	DB         *db.DB
	Cloudinary PhotoUploader
	WebSocket  *websockets.WebSocketManager
	Sessions   *session.Store
	Narrator   Storyteller
	Geocoder   Geocoder
	Logger     *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}

	deps := Dependencies{
		DB:        database,
		WebSocket: websockets.NewWebSocketManager(),
		Sessions:  session.NewStore(),
		Geocoder:  stadiamaps.NewClient(cfg.StadiaAPIKey),
		Logger:    logger,
	}

	cloudinary, err := storage.NewCloudinary(cfg)
	if err != nil {
		logger.Warn("photo uploads disabled", zap.Error(err))
	} else {
		deps.Cloudinary = cloudinary
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("narrative generation disabled: GEMINI_API_KEY is not set")
	} else {
		gen, err := narrative.NewGenAIClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			database.Close()
			return nil, err
		}
		deps.Narrator = narrative.NewNarrator(gen, cfg.CaptionParallelism)
		logger.Info("narrative generation enabled", zap.String("generator", gen.Name()))
	}

	return &deps, nil
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	if d.DB == nil {
		return nil
	}
	return d.DB.Pool()
}
