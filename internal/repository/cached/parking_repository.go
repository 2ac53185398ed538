package cached

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/redis"
	"github.com/evi1sylar/skillbox30hw/internal/repository"
)

const (
	parkingsAllCacheKey   = "parkings:all"
	parkingsOpenCacheKey  = "parkings:open"
	parkingsCountCacheKey = "parkings:count"
)

// ParkingRepository добавляет кэширование списков парковок для дашборда.
// Кэшируются только списочные выборки и счетчик - они показываются в UI,
// где отставание на TTL допустимо. GetByID всегда идет в БД: по нему
// менеджер сессий принимает решения о въезде, устаревший счетчик мест
// здесь недопустим.
type ParkingRepository struct {
	repo  repository.ParkingRepository
	cache *redis.Client
	ttl   time.Duration
}

// NewParkingRepository создает новый кэшируемый parking repository
func NewParkingRepository(repo repository.ParkingRepository, cache *redis.Client, ttl time.Duration) *ParkingRepository {
	return &ParkingRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// Create создает парковку и инвалидирует кэш списков
func (r *ParkingRepository) Create(ctx context.Context, parking *domain.Parking) error {
	if err := r.repo.Create(ctx, parking); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, parkingsAllCacheKey, parkingsOpenCacheKey, parkingsCountCacheKey)

	return nil
}

// GetByID всегда читает из БД (см. комментарий к типу)
func (r *ParkingRepository) GetByID(ctx context.Context, id int64) (*domain.Parking, error) {
	return r.repo.GetByID(ctx, id)
}

// List возвращает все парковки (с кэшированием)
func (r *ParkingRepository) List(ctx context.Context) ([]*domain.Parking, error) {
	return r.cachedList(ctx, parkingsAllCacheKey, r.repo.List)
}

// ListOpenWithCapacity возвращает кандидатов на въезд (с кэшированием)
func (r *ParkingRepository) ListOpenWithCapacity(ctx context.Context) ([]*domain.Parking, error) {
	return r.cachedList(ctx, parkingsOpenCacheKey, r.repo.ListOpenWithCapacity)
}

// Count возвращает число парковок (с кэшированием)
func (r *ParkingRepository) Count(ctx context.Context) (int64, error) {
	cached, err := r.cache.Get(ctx, parkingsCountCacheKey)
	if err == nil {
		if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
			return count, nil
		}
	}

	count, err := r.repo.Count(ctx)
	if err != nil {
		return 0, err
	}

	// Ошибку записи в кэш игнорируем - источник истины в БД
	_ = r.cache.Set(ctx, parkingsCountCacheKey, strconv.FormatInt(count, 10), r.ttl)

	return count, nil
}

func (r *ParkingRepository) cachedList(
	ctx context.Context,
	cacheKey string,
	load func(context.Context) ([]*domain.Parking, error),
) ([]*domain.Parking, error) {
	// 1. Проверяем кэш. Любая ошибка redis (включая redis.Nil при промахе)
	// означает поход в БД
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var parkings []*domain.Parking
		if unmarshalErr := json.Unmarshal([]byte(cached), &parkings); unmarshalErr == nil {
			return parkings, nil
		}
		// Испорченное значение - выбрасываем и перечитываем из БД
		_ = r.cache.Del(ctx, cacheKey)
	}

	// 2. Cache miss - идем в БД
	parkings, err := load(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем результат в кэш
	if payload, marshalErr := json.Marshal(parkings); marshalErr == nil {
		_ = r.cache.Set(ctx, cacheKey, payload, r.ttl)
	}

	return parkings, nil
}
