// Package redis stores the per-user refresh session in Redis. The swap and
// the revocations run as Lua scripts, which Redis executes atomically, so the
// single-session invariant holds without a relational transaction.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tasktrack/tasktrack/internal/auth/model"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
)

const (
	userKeyPrefix  = "session:user:"
	tokenKeyPrefix = "session:token:"
)

// replaceScript drops the user's previous token (if any) and installs the new
// one under both keys, all in one atomic step.
var replaceScript = redis.NewScript(`
local old = redis.call('GET', KEYS[1])
if old then
	redis.call('DEL', 'session:token:'..old)
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// deleteByTokenScript removes a token and its user mapping, but only unlinks
// the user key if it still points at this token. A concurrent login may have
// already installed a newer session that must survive the revocation.
var deleteByTokenScript = redis.NewScript(`
local payload = redis.call('GET', KEYS[1])
if not payload then
	return 0
end
local sep = string.find(payload, '|')
local uid = string.sub(payload, 1, sep - 1)
local cur = redis.call('GET', 'session:user:'..uid)
if cur == ARGV[1] then
	redis.call('DEL', 'session:user:'..uid)
end
redis.call('DEL', KEYS[1])
return 1
`)

var deleteByUserScript = redis.NewScript(`
local tok = redis.call('GET', KEYS[1])
if tok then
	redis.call('DEL', 'session:token:'..tok)
end
redis.call('DEL', KEYS[1])
return 1
`)

type SessionRepo struct {
	client *redis.Client
}

func NewSessionRepo(client *redis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Replace(ctx context.Context, rt model.RefreshToken) error {
	ttl := time.Until(rt.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Millisecond
	}
	err := replaceScript.Run(ctx, r.client,
		[]string{userKeyPrefix + rt.UserID.String(), tokenKeyPrefix + rt.Token},
		rt.Token, encodePayload(rt), ttl.Milliseconds(),
	).Err()
	if err != nil {
		return apperrors.WrapInternal(err, "Replace")
	}
	return nil
}

func (r *SessionRepo) FindByToken(ctx context.Context, token string) (model.RefreshToken, error) {
	payload, err := r.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err == redis.Nil {
		return model.RefreshToken{}, apperrors.ErrNotFound
	}
	if err != nil {
		return model.RefreshToken{}, apperrors.WrapInternal(err, "FindByToken")
	}
	rt, err := decodePayload(token, payload)
	if err != nil {
		return model.RefreshToken{}, apperrors.WrapInternal(err, "FindByToken")
	}
	return rt, nil
}

func (r *SessionRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	err := deleteByUserScript.Run(ctx, r.client, []string{userKeyPrefix + userID.String()}).Err()
	if err != nil && err != redis.Nil {
		return apperrors.WrapInternal(err, "DeleteByUser")
	}
	return nil
}

func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	err := deleteByTokenScript.Run(ctx, r.client, []string{tokenKeyPrefix + token}, token).Err()
	if err != nil && err != redis.Nil {
		return apperrors.WrapInternal(err, "DeleteByToken")
	}
	return nil
}

func encodePayload(rt model.RefreshToken) string {
	return rt.UserID.String() + "|" + rt.ExpiresAt.UTC().Format(time.RFC3339Nano)
}

func decodePayload(token, payload string) (model.RefreshToken, error) {
	parts := strings.SplitN(payload, "|", 2)
	if len(parts) != 2 {
		return model.RefreshToken{}, fmt.Errorf("malformed session payload")
	}
	uid, err := uuid.Parse(parts[0])
	if err != nil {
		return model.RefreshToken{}, err
	}
	exp, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return model.RefreshToken{}, err
	}
	return model.RefreshToken{Token: token, UserID: uid, ExpiresAt: exp}, nil
}
