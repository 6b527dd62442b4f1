package prancharepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"pranchashop/internal/domain"
	"pranchashop/internal/pkg/cache"
	"pranchashop/internal/pkg/logger"
)

// Define a chave de cache para pranchas.
const pranchaCacheKey = "prancha:%d"

// Store é o acesso ao banco que o repositório decora (crudrepo.Store[domain.Prancha]).
type Store interface {
	GetAll(ctx context.Context) ([]domain.Prancha, error)
	GetByID(ctx context.Context, id int64) (domain.Prancha, error)
	GetBy(ctx context.Context, column string, value interface{}) ([]domain.Prancha, error)
	Search(ctx context.Context, column, term string) ([]domain.Prancha, error)
	Create(ctx context.Context, p domain.Prancha) (domain.Prancha, error)
	Update(ctx context.Context, id int64, p domain.Prancha) (domain.Prancha, error)
	Delete(ctx context.Context, id int64) error
}

// PranchaRepository aplica Cache-Aside (Redis) nas leituras por ID.
type PranchaRepository struct {
	Store
	Cache        cache.Client
	CacheTTL     time.Duration
	CacheTimeout time.Duration
	group        singleflight.Group
	logger       logger.Logger
}

// NewPranchaRepository cria o repositório de pranchas com cache.
func NewPranchaRepository(store Store, cacheClient cache.Client, cacheTTL, cacheTimeout time.Duration, logger logger.Logger) *PranchaRepository {
	return &PranchaRepository{
		Store:        store,
		Cache:        cacheClient,
		CacheTTL:     cacheTTL,
		CacheTimeout: cacheTimeout,
		logger:       logger,
	}
}

// GetByID busca a prancha no cache e, na falta, no banco. Buscas simultâneas pela mesma
// prancha viram uma única consulta.
func (r *PranchaRepository) GetByID(ctx context.Context, id int64) (domain.Prancha, error) {
	key := fmt.Sprintf(pranchaCacheKey, id)

	if p, ok := r.fromCache(ctx, key); ok {
		return p, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		if p, ok := r.fromCache(ctx, key); ok {
			return p, nil
		}

		p, err := r.Store.GetByID(ctx, id)
		if err != nil {
			return domain.Prancha{}, err
		}

		r.toCache(ctx, key, p)
		return p, nil
	})
	if err != nil {
		return domain.Prancha{}, err
	}
	return v.(domain.Prancha), nil
}

func (r *PranchaRepository) fromCache(ctx context.Context, key string) (domain.Prancha, bool) {
	ctxCache, cancel := context.WithTimeout(ctx, r.CacheTimeout)
	defer cancel()

	var p domain.Prancha
	cached, err := r.Cache.Get(ctxCache, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			r.logger.Warn("Falha ao ler prancha do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return p, false
	}

	if err := json.Unmarshal([]byte(cached), &p); err != nil {
		r.logger.Warn("Prancha em cache corrompida, buscando no banco.", map[string]interface{}{"key": key})
		return p, false
	}

	r.logger.Debug("Prancha servida do cache.", map[string]interface{}{"key": key})
	return p, true
}

func (r *PranchaRepository) toCache(ctx context.Context, key string, p domain.Prancha) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}

	ctxCache, cancel := context.WithTimeout(ctx, r.CacheTimeout)
	defer cancel()

	if err := r.Cache.Set(ctxCache, key, data, r.CacheTTL); err != nil {
		r.logger.Warn("Falha ao gravar prancha no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// Update grava no banco e invalida o cache da prancha.
func (r *PranchaRepository) Update(ctx context.Context, id int64, p domain.Prancha) (domain.Prancha, error) {
	updated, err := r.Store.Update(ctx, id, p)
	if err != nil {
		return domain.Prancha{}, err
	}
	r.Invalidate(ctx, id)
	return updated, nil
}

// Delete remove do banco e invalida o cache da prancha.
func (r *PranchaRepository) Delete(ctx context.Context, id int64) error {
	if err := r.Store.Delete(ctx, id); err != nil {
		return err
	}
	r.Invalidate(ctx, id)
	return nil
}

// Invalidate remove as pranchas do cache (usado também após baixa de estoque).
func (r *PranchaRepository) Invalidate(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(pranchaCacheKey, id)
	}

	ctxCache, cancel := context.WithTimeout(ctx, r.CacheTimeout)
	defer cancel()

	if err := r.Cache.Delete(ctxCache, keys...); err != nil {
		r.logger.Warn("Falha ao invalidar cache de pranchas.", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
}
