package rest

import (
	"context"

	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/internal/session"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SaveTripRecord writes the trip and replaces its groups and photos.
func (api *API) SaveTripRecord(ctx context.Context, trip model.Trip, groups []model.TripGroup) error {
	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            INSERT INTO trips (id, title, ai_generated_text, edited_text, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (id) DO UPDATE
            SET title = EXCLUDED.title,
                ai_generated_text = EXCLUDED.ai_generated_text,
                edited_text = EXCLUDED.edited_text,
                updated_at = EXCLUDED.updated_at
        `, trip.ID, trip.Title, trip.AIGeneratedText, trip.EditedText, trip.CreatedAt, trip.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, "upsert trip")
		}

		if _, err := tx.Exec(ctx, `DELETE FROM trip_groups WHERE trip_id = $1`, trip.ID); err != nil {
			return errors.Wrap(err, "clear groups")
		}

		batch := &pgx.Batch{}
		for _, g := range groups {
			batch.Queue(`
                INSERT INTO trip_groups (id, trip_id, sort_order, location, rating, review,
                                         start_time, end_time, cover_photo_id, route_polyline)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
            `, g.ID, trip.ID, g.SortOrder, g.Location, g.Rating, g.Review,
				g.StartTime, g.EndTime, g.CoverPhotoID, g.Route)
		}
		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return errors.Wrap(err, "insert groups")
			}
		}

		var rows [][]interface{}
		for _, g := range groups {
			for i, p := range g.Photos {
				rows = append(rows, []interface{}{
					p.ID, g.ID, trip.ID, i, p.CaptureTime, p.Latitude, p.Longitude, p.ImageURL,
				})
			}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"trip_photos"},
			[]string{"id", "group_id", "trip_id", "position", "capture_time", "latitude", "longitude", "image_url"},
			pgx.CopyFromRows(rows),
		)
		return errors.Wrap(err, "copy photos")
	})

	if err != nil {
		zap.L().Error("error saving trip", zap.String("trip_id", trip.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

// SetShareID publishes a saved trip under code.
func (api *API) SetShareID(ctx context.Context, tripID uuid.UUID, code string) error {
	tag, err := api.DB.Exec(ctx, `
        UPDATE trips
        SET share_id = $2, is_public = TRUE, updated_at = NOW()
        WHERE id = $1
    `, tripID, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (api *API) GetShareID(ctx context.Context, tripID uuid.UUID) (*string, error) {
	var shareID *string
	err := api.DB.QueryRow(ctx, `SELECT share_id FROM trips WHERE id = $1`, tripID).Scan(&shareID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	return shareID, err
}

const tripColumns = `id, title, ai_generated_text, edited_text, share_id, is_public, created_at, updated_at`

func scanTrip(row pgx.Row) (model.Trip, error) {
	var t model.Trip
	err := row.Scan(&t.ID, &t.Title, &t.AIGeneratedText, &t.EditedText, &t.ShareID, &t.IsPublic, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Trip{}, session.ErrNotFound
	}
	return t, err
}

// FindTrip loads a saved trip with its groups in display order.
func (api *API) FindTrip(ctx context.Context, tripID uuid.UUID) (model.Trip, []model.TripGroup, error) {
	trip, err := scanTrip(api.DB.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, tripID))
	if err != nil {
		return model.Trip{}, nil, err
	}
	groups, err := api.loadGroups(ctx, trip.ID)
	if err != nil {
		return model.Trip{}, nil, err
	}
	return trip, groups, nil
}

func (api *API) FindSharedTrip(ctx context.Context, shareID string) (model.SharedTrip, error) {
	trip, err := scanTrip(api.DB.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE share_id = $1 AND is_public = TRUE`, shareID))
	if err != nil {
		return model.SharedTrip{}, err
	}
	groups, err := api.loadGroups(ctx, trip.ID)
	if err != nil {
		return model.SharedTrip{}, err
	}
	return model.SharedTrip{Trip: trip, Groups: groups}, nil
}

func (api *API) loadGroups(ctx context.Context, tripID uuid.UUID) ([]model.TripGroup, error) {
	rows, err := api.DB.Query(ctx, `
        SELECT id, trip_id, sort_order, location, rating, review, start_time, end_time,
               cover_photo_id, route_polyline
        FROM trip_groups
        WHERE trip_id = $1
        ORDER BY sort_order
    `, tripID)
	if err != nil {
		return nil, errors.Wrap(err, "query groups")
	}

	var groups []model.TripGroup
	index := make(map[string]int)
	for rows.Next() {
		var g model.TripGroup
		var rating *int16
		if err := rows.Scan(&g.ID, &g.TripID, &g.SortOrder, &g.Location, &rating, &g.Review,
			&g.StartTime, &g.EndTime, &g.CoverPhotoID, &g.Route); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan group")
		}
		if rating != nil {
			v := int(*rating)
			g.Rating = &v
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read groups")
	}

	photoRows, err := api.DB.Query(ctx, `
        SELECT id, group_id, capture_time, latitude, longitude, image_url
        FROM trip_photos
        WHERE trip_id = $1
        ORDER BY group_id, position
    `, tripID)
	if err != nil {
		return nil, errors.Wrap(err, "query photos")
	}
	defer photoRows.Close()

	for photoRows.Next() {
		var p model.PhotoRecord
		var groupID string
		if err := photoRows.Scan(&p.ID, &groupID, &p.CaptureTime, &p.Latitude, &p.Longitude, &p.ImageURL); err != nil {
			return nil, errors.Wrap(err, "scan photo")
		}
		if i, ok := index[groupID]; ok {
			groups[i].Photos = append(groups[i].Photos, p)
		}
	}
	return groups, errors.Wrap(photoRows.Err(), "read photos")
}
