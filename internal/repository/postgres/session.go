package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) FindOpenByClient(ctx context.Context, clientID int64) (*domain.ParkingSession, error) {
	query := `
		SELECT id, client_id, parking_id, time_in, time_out
		FROM client_parking
		WHERE client_id = $1 AND time_out IS NULL
	`

	session := &domain.ParkingSession{}
	err := r.db.QueryRow(ctx, query, clientID).Scan(
		&session.ID,
		&session.ClientID,
		&session.ParkingID,
		&session.TimeIn,
		&session.TimeOut,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

func (r *sessionRepository) FindOpenByClientAndParking(ctx context.Context, clientID, parkingID int64) (*domain.ParkingSession, error) {
	// Клиент нужен вызывающему коду сразу (проверка кредитной карты при
	// выезде), поэтому подтягиваем его одним запросом
	query := `
		SELECT s.id, s.client_id, s.parking_id, s.time_in, s.time_out,
		       c.id, c.name, c.surname, COALESCE(c.credit_card, ''), c.car_number
		FROM client_parking s
		JOIN client c ON c.id = s.client_id
		WHERE s.client_id = $1 AND s.parking_id = $2 AND s.time_out IS NULL
	`

	session := &domain.ParkingSession{Client: &domain.Client{}}
	err := r.db.QueryRow(ctx, query, clientID, parkingID).Scan(
		&session.ID,
		&session.ClientID,
		&session.ParkingID,
		&session.TimeIn,
		&session.TimeOut,
		&session.Client.ID,
		&session.Client.Name,
		&session.Client.Surname,
		&session.Client.CreditCard,
		&session.Client.CarNumber,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

func (r *sessionRepository) ListOpen(ctx context.Context) ([]*domain.ParkingSession, error) {
	query := `
		SELECT s.id, s.client_id, s.parking_id, s.time_in, s.time_out,
		       c.id, c.name, c.surname, COALESCE(c.credit_card, ''), c.car_number,
		       p.id, p.address, p.opened, p.count_places, p.count_available_places
		FROM client_parking s
		JOIN client c ON c.id = s.client_id
		JOIN parking p ON p.id = s.parking_id
		WHERE s.time_out IS NULL
		ORDER BY s.time_in
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ParkingSession
	for rows.Next() {
		session := &domain.ParkingSession{
			Client:  &domain.Client{},
			Parking: &domain.Parking{},
		}
		err := rows.Scan(
			&session.ID,
			&session.ClientID,
			&session.ParkingID,
			&session.TimeIn,
			&session.TimeOut,
			&session.Client.ID,
			&session.Client.Name,
			&session.Client.Surname,
			&session.Client.CreditCard,
			&session.Client.CarNumber,
			&session.Parking.ID,
			&session.Parking.Address,
			&session.Parking.Opened,
			&session.Parking.CountPlaces,
			&session.Parking.CountAvailablePlaces,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func (r *sessionRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM client_parking WHERE time_out IS NULL`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Open выполняет въезд одной serializable-транзакцией: уменьшение счетчика
// свободных мест и вставка сессии фиксируются вместе. Guard в UPDATE не дает
// двум конкурентным въездам увести счетчик в минус: проигравший получает
// 0 затронутых строк и domain.ErrNoAvailableSpace.
func (r *sessionRepository) Open(ctx context.Context, session *domain.ParkingSession) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	decrement := `
		UPDATE parking
		SET count_available_places = count_available_places - 1
		WHERE id = $1 AND count_available_places > 0
	`

	result, err := tx.Exec(ctx, decrement, session.ParkingID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNoAvailableSpace
	}

	insert := `
		INSERT INTO client_parking (client_id, parking_id, time_in)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err = tx.QueryRow(ctx, insert, session.ClientID, session.ParkingID, session.TimeIn).Scan(&session.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Close выполняет выезд одной serializable-транзакцией. time_out IS NULL в
// первом UPDATE защищает от двойного закрытия сессии, верхний guard во втором -
// от выхода счетчика за емкость парковки.
func (r *sessionRepository) Close(ctx context.Context, sessionID int64, timeOut time.Time) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	closeSession := `
		UPDATE client_parking
		SET time_out = $2
		WHERE id = $1 AND time_out IS NULL
		RETURNING parking_id
	`

	var parkingID int64
	err = tx.QueryRow(ctx, closeSession, sessionID, timeOut).Scan(&parkingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSessionClosed
		}
		return err
	}

	increment := `
		UPDATE parking
		SET count_available_places = count_available_places + 1
		WHERE id = $1 AND count_available_places < count_places
	`

	result, err := tx.Exec(ctx, increment, parkingID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		// Счетчик уже равен емкости - значит, он разошелся с числом
		// открытых сессий. Откатываем выезд, не усугубляя расхождение.
		return fmt.Errorf("parking %d availability counter out of sync: %w", parkingID, domain.ErrInternal)
	}

	return tx.Commit(ctx)
}
