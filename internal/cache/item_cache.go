package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"inventory-service/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheStats estadísticas del caché
type CacheStats struct {
	Hits          int64
	Misses        int64
	TotalRequests int64
	TotalKeys     int
}

// ItemCache caché multi-nivel para registros de stock. Las consultas de
// artículos pasan por acá; cualquier mutación de stock invalida la key.
type ItemCache struct {
	// L1: memoria local (más rápido)
	l1Cache map[string]*models.Item
	l1Mutex sync.RWMutex

	// L2: Redis (compartido entre instancias)
	redisClient *redis.Client

	maxL1Size int
	ttl       time.Duration

	logger *zap.Logger

	statsMutex sync.RWMutex
	hits       int64
	misses     int64
}

// NewItemCache crea una nueva instancia del caché
func NewItemCache(redisClient *redis.Client, maxL1Size int, ttl time.Duration, logger *zap.Logger) *ItemCache {
	return &ItemCache{
		l1Cache:     make(map[string]*models.Item),
		redisClient: redisClient,
		maxL1Size:   maxL1Size,
		ttl:         ttl,
		logger:      logger,
	}
}

func cacheKey(itemID, branchID string) string {
	return fmt.Sprintf("item:%s:%s", itemID, branchID)
}

// GetItem busca un registro de stock en caché; nil si no está.
func (ic *ItemCache) GetItem(ctx context.Context, itemID, branchID string) *models.Item {
	key := cacheKey(itemID, branchID)

	// 1. L1 (memoria local)
	if item := ic.getFromL1(key); item != nil {
		ic.recordHit()
		ic.logger.Debug("L1 cache hit", zap.String("key", key))
		return item
	}

	// 2. L2 (Redis)
	if item, err := ic.getFromL2(ctx, key); err == nil && item != nil {
		// Promover a L1 para futuras consultas
		ic.setToL1(key, item)
		ic.recordHit()
		ic.logger.Debug("L2 cache hit", zap.String("key", key))
		return item
	}

	ic.recordMiss()
	return nil
}

// SetItem almacena un registro en ambos niveles
func (ic *ItemCache) SetItem(ctx context.Context, item *models.Item) error {
	key := cacheKey(item.ID, item.BranchID)
	ic.setToL1(key, item)
	return ic.setToL2(ctx, key, item)
}

// InvalidateItem invalida un registro en ambos niveles. Se llama en
// cada movimiento, entrega o edición que toque el artículo.
func (ic *ItemCache) InvalidateItem(ctx context.Context, itemID, branchID string) error {
	key := cacheKey(itemID, branchID)

	ic.l1Mutex.Lock()
	delete(ic.l1Cache, key)
	ic.l1Mutex.Unlock()

	return ic.redisClient.Del(ctx, key).Err()
}

// GetStats retorna estadísticas del caché
func (ic *ItemCache) GetStats() CacheStats {
	ic.statsMutex.RLock()
	defer ic.statsMutex.RUnlock()

	ic.l1Mutex.RLock()
	totalKeys := len(ic.l1Cache)
	ic.l1Mutex.RUnlock()

	return CacheStats{
		Hits:          ic.hits,
		Misses:        ic.misses,
		TotalRequests: ic.hits + ic.misses,
		TotalKeys:     totalKeys,
	}
}

func (ic *ItemCache) recordHit() {
	ic.statsMutex.Lock()
	ic.hits++
	ic.statsMutex.Unlock()
}

func (ic *ItemCache) recordMiss() {
	ic.statsMutex.Lock()
	ic.misses++
	ic.statsMutex.Unlock()
}

func (ic *ItemCache) getFromL1(key string) *models.Item {
	ic.l1Mutex.RLock()
	defer ic.l1Mutex.RUnlock()
	return ic.l1Cache[key]
}

func (ic *ItemCache) setToL1(key string, item *models.Item) {
	ic.l1Mutex.Lock()
	defer ic.l1Mutex.Unlock()

	// Evicción simple cuando se llena
	if len(ic.l1Cache) >= ic.maxL1Size {
		for k := range ic.l1Cache {
			delete(ic.l1Cache, k)
			break
		}
	}

	ic.l1Cache[key] = item
}

func (ic *ItemCache) getFromL2(ctx context.Context, key string) (*models.Item, error) {
	data, err := ic.redisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var item models.Item
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (ic *ItemCache) setToL2(ctx context.Context, key string, item *models.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return ic.redisClient.Set(ctx, key, data, ic.ttl).Err()
}
