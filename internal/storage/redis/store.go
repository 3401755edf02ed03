package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/robalyx/vouchbot/internal/reputation"
	"go.uber.org/zap"
)

// ErrUnsupportedVersion indicates data written by a newer release.
var ErrUnsupportedVersion = errors.New("unsupported redis data version")

// Key suffixes under the configured prefix.
// Keys are formatted as "{prefix}:suffix". The braces form a hash tag so
// every key lands in the same cluster slot.
const (
	versionKey   = "version"
	orderKey     = "order"     // list of user ids in balance insertion order
	balancesKey  = "balances"  // hash of user id to points
	historiesKey = "histories" // hash of user id to a JSON array of vouch records
	cooldownsKey = "cooldowns" // hash of user id to the last vouch in unix nanoseconds
)

// Store keeps the ledger in a handful of Redis keys.
// Every load and save runs inside a MULTI/EXEC block on a dedicated connection.
type Store struct {
	client rueidis.Client
	prefix string
	logger *zap.Logger
}

// New creates a store on the given client. The client is owned by the caller.
func New(client rueidis.Client, prefix string, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger.Named("redis_store"),
	}
}

func (s *Store) key(suffix string) string {
	return "{" + s.prefix + "}:" + suffix
}

// Load reads all keys in one transaction.
func (s *Store) Load(ctx context.Context) (*reputation.Snapshot, error) {
	var results []rueidis.RedisMessage

	err := s.client.Dedicated(func(c rueidis.DedicatedClient) error {
		resps := c.DoMulti(ctx,
			c.B().Multi().Build(),
			c.B().Get().Key(s.key(versionKey)).Build(),
			c.B().Lrange().Key(s.key(orderKey)).Start(0).Stop(-1).Build(),
			c.B().Hgetall().Key(s.key(balancesKey)).Build(),
			c.B().Hgetall().Key(s.key(historiesKey)).Build(),
			c.B().Hgetall().Key(s.key(cooldownsKey)).Build(),
			c.B().Exec().Build(),
		)

		var err error
		results, err = resps[len(resps)-1].ToArray()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger keys: %w", err)
	}
	if len(results) != 5 {
		return nil, fmt.Errorf("unexpected transaction result count %d", len(results))
	}

	version, err := results[0].AsInt64()
	if err != nil && !rueidis.IsRedisNil(err) {
		return nil, fmt.Errorf("invalid version key: %w", err)
	}
	if version > reputation.SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	order, err := results[1].AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("invalid order key: %w", err)
	}

	balances, err := results[2].AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("invalid balances key: %w", err)
	}

	histories, err := results[3].AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("invalid histories key: %w", err)
	}

	cooldowns, err := results[4].AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("invalid cooldowns key: %w", err)
	}

	return decode(order, balances, histories, cooldowns)
}

// Save replaces all keys in one transaction.
func (s *Store) Save(ctx context.Context, snapshot *reputation.Snapshot) error {
	cmds, err := s.saveCommands(snapshot)
	if err != nil {
		return err
	}

	err = s.client.Dedicated(func(c rueidis.DedicatedClient) error {
		for _, resp := range c.DoMulti(ctx, cmds...) {
			if err := resp.Error(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write ledger keys: %w", err)
	}

	s.logger.Debug("Data saved", zap.Int("users", len(snapshot.Balances)))

	return nil
}

// Close is a no-op; the client belongs to the redis manager.
func (s *Store) Close() error {
	return nil
}

func (s *Store) saveCommands(snapshot *reputation.Snapshot) (rueidis.Commands, error) {
	b := s.client.B()

	cmds := rueidis.Commands{
		b.Multi().Build(),
		b.Del().Key(s.key(orderKey), s.key(balancesKey), s.key(historiesKey), s.key(cooldownsKey)).Build(),
		b.Set().Key(s.key(versionKey)).Value(strconv.Itoa(reputation.SnapshotVersion)).Build(),
	}

	if len(snapshot.Balances) > 0 {
		order := make([]string, 0, len(snapshot.Balances))
		balances := b.Hset().Key(s.key(balancesKey)).FieldValue()
		for _, entry := range snapshot.Balances {
			id := formatID(entry.UserID)
			order = append(order, id)
			balances = balances.FieldValue(id, strconv.FormatInt(entry.Points, 10))
		}

		cmds = append(cmds,
			b.Rpush().Key(s.key(orderKey)).Element(order...).Build(),
			balances.Build(),
		)
	}

	if len(snapshot.Histories) > 0 {
		histories := b.Hset().Key(s.key(historiesKey)).FieldValue()
		for userID, records := range snapshot.Histories {
			data, err := sonic.Marshal(records)
			if err != nil {
				return nil, fmt.Errorf("failed to encode history of %d: %w", userID, err)
			}
			histories = histories.FieldValue(formatID(userID), string(data))
		}
		cmds = append(cmds, histories.Build())
	}

	if len(snapshot.Cooldowns) > 0 {
		cooldowns := b.Hset().Key(s.key(cooldownsKey)).FieldValue()
		for userID, at := range snapshot.Cooldowns {
			cooldowns = cooldowns.FieldValue(formatID(userID), strconv.FormatInt(at.UnixNano(), 10))
		}
		cmds = append(cmds, cooldowns.Build())
	}

	return append(cmds, b.Exec().Build()), nil
}

func decode(order []string, balances, histories, cooldowns map[string]string) (*reputation.Snapshot, error) {
	snapshot := reputation.NewSnapshot()

	for _, field := range order {
		userID, err := parseID(field)
		if err != nil {
			return nil, err
		}

		raw, ok := balances[field]
		if !ok {
			continue
		}

		points, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid balance for %s: %w", field, err)
		}

		snapshot.Balances = append(snapshot.Balances, reputation.BalanceEntry{UserID: userID, Points: points})
	}

	for field, raw := range histories {
		userID, err := parseID(field)
		if err != nil {
			return nil, err
		}

		var records []reputation.VouchRecord
		if err := sonic.UnmarshalString(raw, &records); err != nil {
			return nil, fmt.Errorf("invalid history for %s: %w", field, err)
		}
		snapshot.Histories[userID] = records
	}

	for field, raw := range cooldowns {
		userID, err := parseID(field)
		if err != nil {
			return nil, err
		}

		nanos, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cooldown for %s: %w", field, err)
		}
		snapshot.Cooldowns[userID] = time.Unix(0, nanos).UTC()
	}

	return snapshot, nil
}

func formatID(userID reputation.UserID) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func parseID(field string) (reputation.UserID, error) {
	id, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", field, err)
	}
	return reputation.UserID(id), nil
}
