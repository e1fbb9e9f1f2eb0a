package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"chilaquiles/internal/app/config"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	jwtPrefix     = "jwt:blacklist:"
	sessionPrefix = "session:"
)

// ErrNotFound ключа нет (или истёк)
var ErrNotFound = errors.New("key not found")

//go:generate mockgen -source=redis.go -destination=../mocks/token_store.go -package=mocks

// Store хранилище отозванных JWT и серверных сессий
type Store interface {
	// WriteJWTToBlacklist отзывает токен до истечения ttl
	WriteJWTToBlacklist(ctx context.Context, jwtStr string, ttl time.Duration) error
	// CheckJWTInBlacklist возвращает nil, если токен отозван
	CheckJWTInBlacklist(ctx context.Context, jwtStr string) error
	WriteSession(ctx context.Context, sid string, userID uint, ttl time.Duration) error
	ReadSession(ctx context.Context, sid string) (uint, error)
	DeleteSession(ctx context.Context, sid string) error
	Ping(ctx context.Context) error
	Close() error
}

type Client struct {
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	logrus.Infof("redis connected at %s:%d", cfg.Host, cfg.Port)
	return &Client{client: client}, nil
}

func (c *Client) WriteJWTToBlacklist(ctx context.Context, jwtStr string, ttl time.Duration) error {
	return c.client.Set(ctx, jwtPrefix+jwtStr, true, ttl).Err()
}

func (c *Client) CheckJWTInBlacklist(ctx context.Context, jwtStr string) error {
	err := c.client.Get(ctx, jwtPrefix+jwtStr).Err()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	return err
}

func (c *Client) WriteSession(ctx context.Context, sid string, userID uint, ttl time.Duration) error {
	return c.client.Set(ctx, sessionPrefix+sid, userID, ttl).Err()
}

func (c *Client) ReadSession(ctx context.Context, sid string) (uint, error) {
	val, err := c.client.Get(ctx, sessionPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupted session %s: %w", sid, err)
	}
	return uint(id), nil
}

func (c *Client) DeleteSession(ctx context.Context, sid string) error {
	return c.client.Del(ctx, sessionPrefix+sid).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
