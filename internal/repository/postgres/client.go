package postgres

import (
	"context"
	"errors"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type clientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO client (name, surname, credit_card, car_number)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		client.Name,
		client.Surname,
		client.CreditCard,
		client.CarNumber,
	).Scan(&client.ID)

	if err != nil {
		return err
	}

	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `
		SELECT id, name, surname, COALESCE(credit_card, ''), car_number
		FROM client
		WHERE id = $1
	`

	client := &domain.Client{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.Surname,
		&client.CreditCard,
		&client.CarNumber,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	return client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, name, surname, COALESCE(credit_card, ''), car_number
		FROM client
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanClients(rows)
}

func (r *clientRepository) ListWithoutOpenSession(ctx context.Context) ([]*domain.Client, error) {
	// Кандидаты на въезд: клиенты, у которых нет открытой сессии
	query := `
		SELECT c.id, c.name, c.surname, COALESCE(c.credit_card, ''), c.car_number
		FROM client c
		WHERE NOT EXISTS (
			SELECT 1 FROM client_parking s
			WHERE s.client_id = c.id AND s.time_out IS NULL
		)
		ORDER BY c.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanClients(rows)
}

func (r *clientRepository) UpdateCreditCard(ctx context.Context, clientID int64, creditCard string) error {
	query := `
		UPDATE client
		SET credit_card = NULLIF($2, '')
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, clientID, creditCard)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func scanClients(rows pgx.Rows) ([]*domain.Client, error) {
	var clients []*domain.Client
	for rows.Next() {
		client := &domain.Client{}
		err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Surname,
			&client.CreditCard,
			&client.CarNumber,
		)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}
