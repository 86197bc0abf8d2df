package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// provisionalLockTTL bounds how long an in-flight request holds its key
// before the handler must have finished.
const provisionalLockTTL = 60 * time.Second

type idempEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a mutating request is
// retried with the same Idempotency-Key. Requests without the header pass
// through untouched, as does everything when redis is not configured.
func Idempotency(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		if key == "" {
			c.Next()
			return
		}
		if _, err := uuid.Parse(key); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key must be a UUID"})
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		bhash := bodyHash(body)

		storeKey := buildKey(c.Request.Method, c.FullPath(), GetUserID(c).String(), key)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		entry := idempEntry{InProgress: true, BodySHA256: bhash, CreatedAt: time.Now().UTC()}
		ok, err := provisionalSet(ctx, rdb, storeKey, entry)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "idempotency store unavailable"})
			return
		}
		if !ok {
			cur, err := loadEntry(ctx, rdb, storeKey)
			if err == nil {
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Idempotency-Key reused with different body"})
					return
				}
				if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
					c.Data(cur.Code, "application/json", cur.Body)
					c.Abort()
					return
				}
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request is already in progress"})
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		final := idempEntry{
			Code:       rec.Status(),
			Body:       rec.buf.Bytes(),
			BodySHA256: bhash,
			CreatedAt:  time.Now().UTC(),
		}
		_ = saveFinal(context.Background(), rdb, storeKey, final, ttl)
	}
}

func bodyHash(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}

func buildKey(method, path, userID, requestID string) string {
	return "lendtrack:idemp:" + strings.ToLower(method) + ":" + path + ":" + userID + ":" + requestID
}

func provisionalSet(ctx context.Context, rdb *redis.Client, key string, entry idempEntry) (bool, error) {
	payload, _ := json.Marshal(entry)
	return rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func loadEntry(ctx context.Context, rdb *redis.Client, key string) (idempEntry, error) {
	var e idempEntry
	v, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	_ = json.Unmarshal(v, &e)
	return e, nil
}

func saveFinal(ctx context.Context, rdb *redis.Client, key string, entry idempEntry, ttl time.Duration) error {
	payload, _ := json.Marshal(entry)
	return rdb.Set(ctx, key, payload, ttl).Err()
}
