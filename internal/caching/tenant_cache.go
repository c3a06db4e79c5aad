package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"healthhub/internal/models"
)

// TenantCache is a read-through cache in front of the tenant directory.
// Tenants are near-immutable, so a short TTL keeps resolution off the
// database on the hot path while updates converge quickly.
type TenantCache interface {
	GetByID(ctx context.Context, id models.TenantID) (*models.Tenant, error)
	GetByCode(ctx context.Context, code string) (*models.Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	Set(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error
	Invalidate(ctx context.Context, tenant *models.Tenant) error
}

type redisTenantCache struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisTenantCache(addr, password string, db int, logger zerolog.Logger) TenantCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", addr).Msg("redis ping failed on initialization")
	}

	return &redisTenantCache{client: client, logger: logger}
}

func keyByID(id models.TenantID) string {
	return fmt.Sprintf("tenant:id:%d", id)
}

func keyByCode(code string) string {
	return "tenant:code:" + strings.ToLower(code)
}

func keyByDomain(domain string) string {
	return "tenant:domain:" + strings.ToLower(domain)
}

func (c *redisTenantCache) get(ctx context.Context, key string) (*models.Tenant, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	tenant := &models.Tenant{}
	if err := json.Unmarshal(data, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (c *redisTenantCache) GetByID(ctx context.Context, id models.TenantID) (*models.Tenant, error) {
	return c.get(ctx, keyByID(id))
}

func (c *redisTenantCache) GetByCode(ctx context.Context, code string) (*models.Tenant, error) {
	return c.get(ctx, keyByCode(code))
}

func (c *redisTenantCache) GetByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	return c.get(ctx, keyByDomain(domain))
}

func (c *redisTenantCache) Set(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}

	keys := []string{keyByID(tenant.ID), keyByCode(tenant.Code)}
	if tenant.PrimaryDomain != nil && *tenant.PrimaryDomain != "" {
		keys = append(keys, keyByDomain(*tenant.PrimaryDomain))
	}
	for _, key := range keys {
		if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (c *redisTenantCache) Invalidate(ctx context.Context, tenant *models.Tenant) error {
	keys := []string{keyByID(tenant.ID), keyByCode(tenant.Code)}
	if tenant.PrimaryDomain != nil && *tenant.PrimaryDomain != "" {
		keys = append(keys, keyByDomain(*tenant.PrimaryDomain))
	}
	return c.client.Del(ctx, keys...).Err()
}
