package postgres

import (
	"context"
	"errors"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type parkingRepository struct {
	db *pgxpool.Pool
}

func NewParkingRepository(db *pgxpool.Pool) repository.ParkingRepository {
	return &parkingRepository{db: db}
}

func (r *parkingRepository) Create(ctx context.Context, parking *domain.Parking) error {
	query := `
		INSERT INTO parking (address, opened, count_places, count_available_places)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		parking.Address,
		parking.Opened,
		parking.CountPlaces,
		parking.CountAvailablePlaces,
	).Scan(&parking.ID)

	if err != nil {
		return err
	}

	return nil
}

func (r *parkingRepository) GetByID(ctx context.Context, id int64) (*domain.Parking, error) {
	query := `
		SELECT id, address, opened, count_places, count_available_places
		FROM parking
		WHERE id = $1
	`

	parking := &domain.Parking{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&parking.ID,
		&parking.Address,
		&parking.Opened,
		&parking.CountPlaces,
		&parking.CountAvailablePlaces,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParkingNotFound
		}
		return nil, err
	}

	return parking, nil
}

func (r *parkingRepository) List(ctx context.Context) ([]*domain.Parking, error) {
	query := `
		SELECT id, address, opened, count_places, count_available_places
		FROM parking
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParkings(rows)
}

func (r *parkingRepository) ListOpenWithCapacity(ctx context.Context) ([]*domain.Parking, error) {
	query := `
		SELECT id, address, opened, count_places, count_available_places
		FROM parking
		WHERE opened = true AND count_available_places > 0
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParkings(rows)
}

func (r *parkingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM parking`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func scanParkings(rows pgx.Rows) ([]*domain.Parking, error) {
	var parkings []*domain.Parking
	for rows.Next() {
		parking := &domain.Parking{}
		err := rows.Scan(
			&parking.ID,
			&parking.Address,
			&parking.Opened,
			&parking.CountPlaces,
			&parking.CountAvailablePlaces,
		)
		if err != nil {
			return nil, err
		}
		parkings = append(parkings, parking)
	}

	return parkings, rows.Err()
}
