package client

import (
	"context"
	"testing"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestService_CreateClient тестирует создание клиента
func TestService_CreateClient(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateClientRequest
		wantErr error
	}{
		{
			name: "успешное создание",
			req:  CreateClientRequest{Name: "Иван", Surname: "Иванов", CarNumber: "А123ВС77"},
		},
		{
			name: "с кредитной картой",
			req:  CreateClientRequest{Name: "Петр", Surname: "Петров", CarNumber: "A123BC123", CreditCard: "tok_4242"},
		},
		{
			name:    "без имени",
			req:     CreateClientRequest{Surname: "Иванов", CarNumber: "А123ВС77"},
			wantErr: domain.ErrInvalidClientData,
		},
		{
			name:    "фамилия из пробелов",
			req:     CreateClientRequest{Name: "Иван", Surname: "  ", CarNumber: "А123ВС77"},
			wantErr: domain.ErrInvalidClientData,
		},
		{
			name:    "неверный формат номера",
			req:     CreateClientRequest{Name: "Иван", Surname: "Иванов", CarNumber: "A1BC12"},
			wantErr: domain.ErrInvalidCarNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			svc := NewService(store.Clients(), logger.NewNoop())

			created, err := svc.CreateClient(ctx, &tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, created.ID)

			stored, err := svc.GetClientByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, stored)
		})
	}
}

// TestService_CreateClient_TrimsInput проверяет обрезку пробелов
func TestService_CreateClient_TrimsInput(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Clients(), logger.NewNoop())

	created, err := svc.CreateClient(context.Background(), &CreateClientRequest{
		Name:      "  Иван ",
		Surname:   " Иванов  ",
		CarNumber: " А123ВС77 ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Иван", created.Name)
	assert.Equal(t, "Иванов", created.Surname)
	assert.Equal(t, "А123ВС77", created.CarNumber)
}

// TestService_GetClientByID тестирует получение клиента
func TestService_GetClientByID(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Clients(), logger.NewNoop())

	_, err := svc.GetClientByID(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

// TestService_ListClients тестирует список клиентов
func TestService_ListClients(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Clients(), logger.NewNoop())

	for _, name := range []string{"Иван", "Петр", "Сидор"} {
		_, err := svc.CreateClient(ctx, &CreateClientRequest{Name: name, Surname: "Тестов", CarNumber: "А123ВС77"})
		require.NoError(t, err)
	}

	clients, err := svc.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 3)
}
