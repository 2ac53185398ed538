package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock - управляемые часы для тестов
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

const testRatePerMinute = 10

func newTestService(t *testing.T) (*Service, *memory.Store, *fakeClock) {
	t.Helper()
	store := memory.NewStore()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	svc := NewService(store.Clients(), store.Parkings(), store.Sessions(), testRatePerMinute, logger.NewNoop())
	svc.now = clock.Now

	return svc, store, clock
}

func createTestClient(t *testing.T, store *memory.Store, creditCard string) *domain.Client {
	t.Helper()
	client := &domain.Client{
		Name:       "Иван",
		Surname:    "Иванов",
		CarNumber:  "А123ВС77",
		CreditCard: creditCard,
	}
	require.NoError(t, store.Clients().Create(context.Background(), client))
	return client
}

func createTestParking(t *testing.T, store *memory.Store, places int, opened bool) *domain.Parking {
	t.Helper()
	parking := &domain.Parking{
		Address:              "ул. Ленина, 1",
		Opened:               opened,
		CountPlaces:          places,
		CountAvailablePlaces: places,
	}
	require.NoError(t, store.Parkings().Create(context.Background(), parking))
	return parking
}

func availablePlaces(t *testing.T, store *memory.Store, parkingID int64) int {
	t.Helper()
	parking, err := store.Parkings().GetByID(context.Background(), parkingID)
	require.NoError(t, err)
	return parking.CountAvailablePlaces
}

// TestService_Enter тестирует предусловия и эффекты въезда
func TestService_Enter(t *testing.T) {
	ctx := context.Background()

	t.Run("успешный въезд", func(t *testing.T) {
		svc, store, clock := newTestService(t)
		client := createTestClient(t, store, "")
		parking := createTestParking(t, store, 10, true)

		session, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: parking.ID})

		require.NoError(t, err)
		assert.Equal(t, client.ID, session.ClientID)
		assert.Equal(t, parking.ID, session.ParkingID)
		assert.Equal(t, clock.Now(), session.TimeIn)
		assert.True(t, session.IsOpen())
		assert.Equal(t, 9, availablePlaces(t, store, parking.ID))
	})

	t.Run("клиент уже на парковке", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		client := createTestClient(t, store, "")
		first := createTestParking(t, store, 10, true)
		second := createTestParking(t, store, 10, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: first.ID})
		require.NoError(t, err)

		// Повторный въезд запрещен на любую парковку, не только на ту же
		_, err = svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: second.ID})
		assert.ErrorIs(t, err, domain.ErrAlreadyParked)
		assert.Equal(t, 9, availablePlaces(t, store, first.ID))
		assert.Equal(t, 10, availablePlaces(t, store, second.ID))
	})

	t.Run("клиент не найден", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		parking := createTestParking(t, store, 10, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: 999, ParkingID: parking.ID})
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})

	t.Run("парковка не найдена", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		client := createTestClient(t, store, "")

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: 999})
		assert.ErrorIs(t, err, domain.ErrParkingNotFound)
	})

	t.Run("парковка закрыта", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		client := createTestClient(t, store, "")
		parking := createTestParking(t, store, 10, false)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: parking.ID})
		assert.ErrorIs(t, err, domain.ErrParkingClosed)
		assert.Equal(t, 10, availablePlaces(t, store, parking.ID))
	})

	t.Run("нет свободных мест", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		first := createTestClient(t, store, "")
		second := createTestClient(t, store, "")
		parking := createTestParking(t, store, 1, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: first.ID, ParkingID: parking.ID})
		require.NoError(t, err)

		_, err = svc.Enter(ctx, &EnterRequest{ClientID: second.ID, ParkingID: parking.ID})
		assert.ErrorIs(t, err, domain.ErrNoAvailableSpace)
		assert.Equal(t, 0, availablePlaces(t, store, parking.ID))
	})
}

// TestService_Exit тестирует выезд: оплату, закрытие сессии, счетчик мест
func TestService_Exit(t *testing.T) {
	ctx := context.Background()

	t.Run("активная сессия не найдена", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		client := createTestClient(t, store, "tok_4242")
		parking := createTestParking(t, store, 10, true)

		_, err := svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("выезд не с той парковки", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		client := createTestClient(t, store, "tok_4242")
		first := createTestParking(t, store, 10, true)
		second := createTestParking(t, store, 10, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: first.ID})
		require.NoError(t, err)

		_, err = svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: second.ID})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("требуется кредитная карта", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		client := createTestClient(t, store, "")
		parking := createTestParking(t, store, 10, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: parking.ID})
		require.NoError(t, err)

		resp, err := svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID})

		require.NoError(t, err)
		assert.True(t, resp.RequireCreditCard)
		assert.Equal(t, client.Name, resp.ClientName)
		assert.Equal(t, client.CarNumber, resp.CarNumber)
		assert.Equal(t, client.ID, resp.ClientID)
		assert.Equal(t, parking.ID, resp.ParkingID)

		// Сессия осталась открытой, счетчик не тронут
		_, err = store.Sessions().FindOpenByClient(ctx, client.ID)
		assert.NoError(t, err)
		assert.Equal(t, 9, availablePlaces(t, store, parking.ID))
	})

	t.Run("карта в запросе сохраняется и выезд завершается", func(t *testing.T) {
		svc, store, clock := newTestService(t)
		client := createTestClient(t, store, "")
		parking := createTestParking(t, store, 10, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: parking.ID})
		require.NoError(t, err)
		clock.Advance(5 * time.Minute)

		resp, err := svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID, CreditCard: "tok_4242"})

		require.NoError(t, err)
		assert.False(t, resp.RequireCreditCard)
		assert.Equal(t, int64(5), resp.Minutes)
		assert.Equal(t, int64(50), resp.Amount)

		// Карта сохранена на клиенте для будущих выездов
		stored, err := store.Clients().GetByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "tok_4242", stored.CreditCard)
		assert.Equal(t, 10, availablePlaces(t, store, parking.ID))
	})

	t.Run("повторный запрос после требования карты", func(t *testing.T) {
		svc, store, clock := newTestService(t)
		client := createTestClient(t, store, "")
		parking := createTestParking(t, store, 10, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: parking.ID})
		require.NoError(t, err)

		first, err := svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID})
		require.NoError(t, err)
		require.True(t, first.RequireCreditCard)

		clock.Advance(2 * time.Minute)
		second, err := svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID, CreditCard: "tok_4242"})
		require.NoError(t, err)
		assert.False(t, second.RequireCreditCard)
		assert.Equal(t, int64(20), second.Amount)
	})

	t.Run("расчет платы за полные минуты", func(t *testing.T) {
		svc, store, clock := newTestService(t)
		client := createTestClient(t, store, "tok_4242")
		parking := createTestParking(t, store, 10, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: parking.ID})
		require.NoError(t, err)

		// 125 секунд = 2 полные минуты, по 10 за минуту
		clock.Advance(125 * time.Second)
		resp, err := svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID})

		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Minutes)
		assert.Equal(t, int64(20), resp.Amount)
		assert.Contains(t, resp.Message, "20 руб.")
	})

	t.Run("часы ушли назад - плата не отрицательная", func(t *testing.T) {
		svc, store, clock := newTestService(t)
		client := createTestClient(t, store, "tok_4242")
		parking := createTestParking(t, store, 10, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: parking.ID})
		require.NoError(t, err)

		clock.Advance(-10 * time.Minute)
		resp, err := svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID})

		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Amount)
	})

	t.Run("повторный выезд", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		client := createTestClient(t, store, "tok_4242")
		parking := createTestParking(t, store, 10, true)

		_, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: parking.ID})
		require.NoError(t, err)

		_, err = svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID})
		require.NoError(t, err)

		_, err = svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.Equal(t, 10, availablePlaces(t, store, parking.ID))
	})
}

// TestService_CapacityAccounting проверяет инвариант счетчика мест:
// после N въездов и M выездов свободно count_places - (N - M)
func TestService_CapacityAccounting(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestService(t)
	parking := createTestParking(t, store, 10, true)

	clients := make([]*domain.Client, 5)
	for i := range clients {
		clients[i] = createTestClient(t, store, "tok_4242")
	}

	// 5 въездов
	for _, c := range clients {
		_, err := svc.Enter(ctx, &EnterRequest{ClientID: c.ID, ParkingID: parking.ID})
		require.NoError(t, err)
	}
	assert.Equal(t, 5, availablePlaces(t, store, parking.ID))

	// 2 выезда
	clock.Advance(time.Hour)
	for _, c := range clients[:2] {
		_, err := svc.Exit(ctx, &ExitRequest{ClientID: c.ID, ParkingID: parking.ID})
		require.NoError(t, err)
	}
	assert.Equal(t, 7, availablePlaces(t, store, parking.ID))

	// Выехавшие могут заехать снова, счетчик не выходит за границы
	for _, c := range clients[:2] {
		_, err := svc.Enter(ctx, &EnterRequest{ClientID: c.ID, ParkingID: parking.ID})
		require.NoError(t, err)
	}
	assert.Equal(t, 5, availablePlaces(t, store, parking.ID))

	// Все выезжают - парковка снова пустая
	for _, c := range clients {
		_, err := svc.Exit(ctx, &ExitRequest{ClientID: c.ID, ParkingID: parking.ID})
		require.NoError(t, err)
	}
	assert.Equal(t, 10, availablePlaces(t, store, parking.ID))
}

// TestService_EndToEnd - полный цикл из спецификации тарифа
func TestService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestService(t)
	client := createTestClient(t, store, "")
	parking := createTestParking(t, store, 10, true)

	session, err := svc.Enter(ctx, &EnterRequest{ClientID: client.ID, ParkingID: parking.ID})
	require.NoError(t, err)
	assert.Equal(t, 9, availablePlaces(t, store, parking.ID))

	clock.Advance(90 * time.Minute)
	resp, err := svc.Exit(ctx, &ExitRequest{ClientID: client.ID, ParkingID: parking.ID, CreditCard: "tok_4242"})
	require.NoError(t, err)

	assert.Equal(t, 10, availablePlaces(t, store, parking.ID))
	assert.Equal(t, domain.CalcFee(session.TimeIn, clock.Now(), testRatePerMinute), resp.Amount)
	assert.Equal(t, int64(900), resp.Amount)
}

// TestService_ListActive тестирует список открытых сессий
func TestService_ListActive(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestService(t)
	first := createTestClient(t, store, "tok_4242")
	second := createTestClient(t, store, "tok_4242")
	parking := createTestParking(t, store, 10, true)

	_, err := svc.Enter(ctx, &EnterRequest{ClientID: first.ID, ParkingID: parking.ID})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = svc.Enter(ctx, &EnterRequest{ClientID: second.ID, ParkingID: parking.ID})
	require.NoError(t, err)

	sessions, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	// Клиент и парковка подтянуты join-ом
	assert.Equal(t, first.ID, sessions[0].Client.ID)
	assert.Equal(t, parking.Address, sessions[0].Parking.Address)

	_, err = svc.Exit(ctx, &ExitRequest{ClientID: first.ID, ParkingID: parking.ID})
	require.NoError(t, err)

	sessions, err = svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, second.ID, sessions[0].ClientID)
}

// TestService_EntryCandidates тестирует выборку кандидатов на въезд
func TestService_EntryCandidates(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	parked := createTestClient(t, store, "tok_4242")
	free := createTestClient(t, store, "")

	open := createTestParking(t, store, 10, true)
	createTestParking(t, store, 10, false) // закрытая
	full := createTestParking(t, store, 1, true)

	_, err := svc.Enter(ctx, &EnterRequest{ClientID: parked.ID, ParkingID: full.ID})
	require.NoError(t, err)

	candidates, err := svc.EntryCandidates(ctx)
	require.NoError(t, err)

	// Припаркованный клиент не кандидат
	require.Len(t, candidates.Clients, 1)
	assert.Equal(t, free.ID, candidates.Clients[0].ID)

	// Закрытая и заполненная парковки не кандидаты
	require.Len(t, candidates.Parkings, 1)
	assert.Equal(t, open.ID, candidates.Parkings[0].ID)
}

// TestService_Stats тестирует сводку для дашборда
func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		createTestParking(t, store, 10, true)
	}
	parking := createTestParking(t, store, 10, true)

	for i := 0; i < 2; i++ {
		c := createTestClient(t, store, "tok_4242")
		_, err := svc.Enter(ctx, &EnterRequest{ClientID: c.ID, ParkingID: parking.ID})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.ParkingsCount)
	assert.Equal(t, int64(2), stats.ActiveSessionsCount)
}

// TestService_EnterExitSequences - свойство счетчика на случайных
// последовательностях въездов и выездов
func TestService_EnterExitSequences(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestService(t)
	parking := createTestParking(t, store, 3, true)

	clients := make([]*domain.Client, 6)
	for i := range clients {
		clients[i] = createTestClient(t, store, "tok_4242")
	}

	inside := make(map[int64]bool)
	for step, idx := range []int{0, 1, 2, 3, 0, 4, 1, 2, 5, 3} {
		c := clients[idx]
		clock.Advance(time.Minute)

		if inside[c.ID] {
			_, err := svc.Exit(ctx, &ExitRequest{ClientID: c.ID, ParkingID: parking.ID})
			require.NoError(t, err, fmt.Sprintf("step %d: exit", step))
			delete(inside, c.ID)
		} else {
			_, err := svc.Enter(ctx, &EnterRequest{ClientID: c.ID, ParkingID: parking.ID})
			if len(inside) == parking.CountPlaces {
				require.ErrorIs(t, err, domain.ErrNoAvailableSpace, fmt.Sprintf("step %d: enter into full", step))
			} else {
				require.NoError(t, err, fmt.Sprintf("step %d: enter", step))
				inside[c.ID] = true
			}
		}

		available := availablePlaces(t, store, parking.ID)
		assert.Equal(t, parking.CountPlaces-len(inside), available, fmt.Sprintf("step %d", step))
		assert.GreaterOrEqual(t, available, 0)
		assert.LessOrEqual(t, available, parking.CountPlaces)
	}
}
