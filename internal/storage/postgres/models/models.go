package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Balance is a row of the balances table.
type Balance struct {
	bun.BaseModel `bun:"table:balances,alias:b"`

	UserID   int64 `bun:",pk"`
	Points   int64 `bun:",notnull"`
	Position int64 `bun:",notnull"`
}

// Vouch is a row of the vouches table. Rows of one target are ordered by ID.
type Vouch struct {
	bun.BaseModel `bun:"table:vouches,alias:v"`

	ID        int64     `bun:",pk,autoincrement"`
	TargetID  int64     `bun:",notnull"`
	VoucherID int64     `bun:",notnull"`
	Reason    string    `bun:",notnull"`
	CreatedAt time.Time `bun:",notnull"`
	RepAmount int64     `bun:",notnull"`
}

// Cooldown is a row of the cooldowns table.
type Cooldown struct {
	bun.BaseModel `bun:"table:cooldowns,alias:c"`

	UserID    int64     `bun:",pk"`
	LastVouch time.Time `bun:",notnull"`
}
