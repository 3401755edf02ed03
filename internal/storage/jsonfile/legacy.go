package jsonfile

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/robalyx/vouchbot/internal/reputation"
)

// legacyTimestampLayout is the naive UTC ISO format of unversioned files.
const legacyTimestampLayout = "2006-01-02T15:04:05.999999"

// legacyVouch is a history entry of an unversioned data file.
type legacyVouch struct {
	Voucher   uint64 `json:"voucher"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
	RepAmount int64  `json:"rep_amount"`
}

// legacyFile is the unversioned layout with string keyed maps.
// Balances are read separately so that their document order is kept.
type legacyFile struct {
	VouchHistory map[string][]legacyVouch `json:"vouch_history"`
	LastVouch    map[string]float64       `json:"last_vouch"`
}

// decodeLegacy converts an unversioned data file into a snapshot.
func decodeLegacy(data []byte) (*reputation.Snapshot, error) {
	var legacy legacyFile
	if err := sonic.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("failed to decode legacy data file: %w", err)
	}

	snapshot := reputation.NewSnapshot()

	balances, err := legacyBalances(data)
	if err != nil {
		return nil, err
	}
	snapshot.Balances = balances

	for key, vouches := range legacy.VouchHistory {
		userID, err := parseUserID(key)
		if err != nil {
			return nil, err
		}

		records := make([]reputation.VouchRecord, 0, len(vouches))
		for _, vouch := range vouches {
			timestamp, err := time.ParseInLocation(legacyTimestampLayout, vouch.Timestamp, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("invalid vouch timestamp %q: %w", vouch.Timestamp, err)
			}

			records = append(records, reputation.VouchRecord{
				Voucher:   reputation.UserID(vouch.Voucher),
				Reason:    vouch.Reason,
				Timestamp: timestamp,
				RepAmount: vouch.RepAmount,
			})
		}
		snapshot.Histories[userID] = records
	}

	for key, seconds := range legacy.LastVouch {
		userID, err := parseUserID(key)
		if err != nil {
			return nil, err
		}

		whole, frac := math.Modf(seconds)
		snapshot.Cooldowns[userID] = time.Unix(int64(whole), int64(frac*1e9)).UTC()
	}

	return snapshot, nil
}

// legacyBalances walks the "reputation" object in document order.
func legacyBalances(data []byte) ([]reputation.BalanceEntry, error) {
	root, err := sonic.Get(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse legacy data file: %w", err)
	}

	node := root.Get("reputation")
	if !node.Exists() {
		return []reputation.BalanceEntry{}, nil
	}

	it, err := node.Properties()
	if err != nil {
		return nil, fmt.Errorf("invalid legacy reputation object: %w", err)
	}

	var pair ast.Pair
	entries := []reputation.BalanceEntry{}
	for it.HasNext() {
		if !it.Next(&pair) {
			break
		}

		userID, err := parseUserID(pair.Key)
		if err != nil {
			return nil, err
		}

		points, err := pair.Value.Int64()
		if err != nil {
			return nil, fmt.Errorf("invalid balance for user %s: %w", pair.Key, err)
		}

		entries = append(entries, reputation.BalanceEntry{UserID: userID, Points: points})
	}

	return entries, nil
}

func parseUserID(key string) (reputation.UserID, error) {
	id, err := strconv.ParseUint(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", key, err)
	}
	return reputation.UserID(id), nil
}
