package reputation

import (
	"cmp"
	"slices"
)

// Leaderboard returns every user with a balance entry, highest points first.
// Users with equal points keep the order in which their balances were created.
func (l *Ledger) Leaderboard() []Standing {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.leaderboard()
}

// LeaderboardPage returns one page of the leaderboard, the page index actually
// used and the total page count. The index is zero-based and clamped to the
// available range; an empty leaderboard has a single empty page.
func (l *Ledger) LeaderboardPage(page, pageSize int) ([]Standing, int, int) {
	leaderboard := l.Leaderboard()
	if pageSize <= 0 || len(leaderboard) == 0 {
		return nil, 0, 1
	}

	totalPages := (len(leaderboard) + pageSize - 1) / pageSize
	page = min(max(page, 0), totalPages-1)

	start := page * pageSize
	end := min(start+pageSize, len(leaderboard))

	return leaderboard[start:end], page, totalPages
}

// Rank returns the user's 1-based leaderboard position.
// The boolean is false when the user has no balance entry.
func (l *Ledger) Rank(user UserID) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.balances[user]; !ok {
		return 0, false
	}

	for i, standing := range l.leaderboard() {
		if standing.UserID == user {
			return i + 1, true
		}
	}

	return 0, false
}

// TotalUsers returns the number of users with a balance entry.
func (l *Ledger) TotalUsers() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.order)
}

// TotalReputation returns the sum of all balances.
func (l *Ledger) TotalReputation() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total int64
	for _, points := range l.balances {
		total += points
	}

	return total
}

// VouchHistory returns up to limit of the user's vouches, newest first.
func (l *Ledger) VouchHistory(user UserID, limit int) []VouchRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records := l.histories[user]
	if limit <= 0 || len(records) == 0 {
		return []VouchRecord{}
	}

	recent := slices.Clone(records[max(len(records)-limit, 0):])
	slices.Reverse(recent)

	return recent
}

// leaderboard builds the sorted standings. Callers must hold the lock.
func (l *Ledger) leaderboard() []Standing {
	standings := make([]Standing, 0, len(l.order))
	for _, userID := range l.order {
		standings = append(standings, Standing{UserID: userID, Points: l.balances[userID]})
	}

	slices.SortStableFunc(standings, func(a, b Standing) int {
		return cmp.Compare(b.Points, a.Points)
	})

	return standings
}
