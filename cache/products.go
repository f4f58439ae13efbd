// Package cache keeps the product catalogue in Redis in front of the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"go-storefront/models"
	"go-storefront/store"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

const listKey = "products:all"

func productKey(id primitive.ObjectID) string {
	return "product:" + id.Hex()
}

// Products is a cache-aside store.ProductStore. Reads go to Redis first and
// concurrent misses for the same key share one store read; writes go to the
// store and then drop the affected keys.
type Products struct {
	next   store.ProductStore
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewProducts wraps next with a Redis cache
func NewProducts(next store.ProductStore, client *redis.Client, ttl time.Duration) *Products {
	return &Products{next: next, client: client, ttl: ttl}
}

func (c *Products) get(ctx context.Context, key string, v interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("product cache get %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("product cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *Products) set(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("product cache set %s: %v", key, err)
	}
}

func (c *Products) invalidate(ctx context.Context, keys ...string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("product cache invalidate: %v", err)
	}
}

func (c *Products) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if c.get(ctx, listKey, &products) {
		return products, nil
	}
	v, err, _ := c.group.Do(listKey, func() (interface{}, error) {
		products, err := c.next.List(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, listKey, products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Product), nil
}

func (c *Products) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	key := productKey(id)
	var product models.Product
	if c.get(ctx, key, &product) {
		return &product, nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		product, err := c.next.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, product)
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	p := *v.(*models.Product)
	return &p, nil
}

func (c *Products) Create(ctx context.Context, product *models.Product) error {
	if err := c.next.Create(ctx, product); err != nil {
		return err
	}
	c.invalidate(ctx, listKey)
	return nil
}

func (c *Products) Update(ctx context.Context, product *models.Product) error {
	if err := c.next.Update(ctx, product); err != nil {
		return err
	}
	c.invalidate(ctx, listKey, productKey(product.ID))
	return nil
}

func (c *Products) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, listKey, productKey(id))
	return nil
}

func (c *Products) InsertMany(ctx context.Context, products []models.Product) ([]models.Product, error) {
	inserted, err := c.next.InsertMany(ctx, products)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, listKey)
	return inserted, nil
}

func (c *Products) Count(ctx context.Context) (int64, error) {
	return c.next.Count(ctx)
}

// Connect opens a Redis client from a redis:// URL and pings it
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
