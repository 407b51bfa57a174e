package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"dely/internal/config"
	"dely/internal/models"
)

type CacheService interface {
	// Product caching
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	// Category list caching
	GetCategories(ctx context.Context) ([]*models.Category, error)
	SetCategories(ctx context.Context, categories []*models.Category, ttl time.Duration) error
	DeleteCategories(ctx context.Context) error

	// Invoice payload caching keyed by order id
	GetInvoiceJSON(ctx context.Context, orderID uuid.UUID) ([]byte, error)
	SetInvoiceJSON(ctx context.Context, orderID uuid.UUID, payload []byte, ttl time.Duration) error
	DeleteInvoiceJSON(ctx context.Context, orderID uuid.UUID) error

	InvalidateAll(ctx context.Context) error

	// Ping reports whether the backing store answers.
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
		parsedAddr = hostPort
	}

	log := config.GetLogger()

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.WithError(pingErr).WithField("addr", parsedAddr).Warn("redis ping failed on initialization")
	}

	return &redisCacheService{client: client, log: log}
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	data, err := r.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKey(product.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.client.Del(ctx, productKey(productID)).Err()
}

func (r *redisCacheService) GetCategories(ctx context.Context) ([]*models.Category, error) {
	data, err := r.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var categories []*models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *redisCacheService) SetCategories(ctx context.Context, categories []*models.Category, ttl time.Duration) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, categoriesKey, data, ttl).Err()
}

func (r *redisCacheService) DeleteCategories(ctx context.Context) error {
	return r.client.Del(ctx, categoriesKey).Err()
}

func (r *redisCacheService) GetInvoiceJSON(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	data, err := r.client.Get(ctx, invoiceKey(orderID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (r *redisCacheService) SetInvoiceJSON(ctx context.Context, orderID uuid.UUID, payload []byte, ttl time.Duration) error {
	return r.client.Set(ctx, invoiceKey(orderID), payload, ttl).Err()
}

func (r *redisCacheService) DeleteInvoiceJSON(ctx context.Context, orderID uuid.UUID) error {
	return r.client.Del(ctx, invoiceKey(orderID)).Err()
}

func (r *redisCacheService) InvalidateAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "dely:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.log.WithError(err).WithField("key", iter.Val()).Warn("cache invalidation failed for key")
		}
	}
	return iter.Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

const categoriesKey = "dely:categories:active"

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("dely:product:%s", id.String())
}

func invoiceKey(orderID uuid.UUID) string {
	return fmt.Sprintf("dely:invoice:%s", orderID.String())
}
