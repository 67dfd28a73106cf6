package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"formation-hub/backend/config"
)

// Client Redis 客户端封装
// 当前用于选课范围缓存与接口限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 选课范围缓存 ──

const (
	scopePrefix = "calendar:scope:"
	// 空范围占位成员，区分"无缓存"与"缓存了空集合"
	scopeEmptyMarker = "-"
)

// GetClassScope 读取学生的班级范围缓存；未命中时 ok=false
func (c *Client) GetClassScope(ctx context.Context, studentID string) ([]string, bool, error) {
	members, err := c.rdb.SMembers(ctx, scopePrefix+studentID).Result()
	if err != nil {
		return nil, false, err
	}
	if len(members) == 0 {
		return nil, false, nil
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m != scopeEmptyMarker {
			ids = append(ids, m)
		}
	}
	return ids, true, nil
}

// SetClassScope 写入学生的班级范围缓存
func (c *Client) SetClassScope(ctx context.Context, studentID string, classIDs []string, ttl time.Duration) error {
	key := scopePrefix + studentID
	members := make([]interface{}, 0, len(classIDs)+1)
	if len(classIDs) == 0 {
		members = append(members, scopeEmptyMarker)
	}
	for _, id := range classIDs {
		members = append(members, id)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateClassScope 删除学生的班级范围缓存（选课变更后调用）
func (c *Client) InvalidateClassScope(ctx context.Context, studentID string) error {
	return c.rdb.Del(ctx, scopePrefix+studentID).Err()
}

// ── 滑动窗口限流 ──

// CheckRateLimit 基于有序集合的滑动窗口计数，返回本次请求是否放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, errors.New("limit 必须大于 0")
	}
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return card.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
