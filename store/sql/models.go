package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

// kvRecord backs the ephemeral store. Rows are short-lived: state tokens and
// in-flight credentials between callback and pickup. expires_at is enforced
// at read time; the purge job reclaims rows the readers never touched.
type kvRecord struct {
	bun.BaseModel `bun:"table:kv_entries,alias:kv"`

	ID        string    `bun:"id,pk"`
	Key       string    `bun:"key,notnull,unique"`
	Value     []byte    `bun:"value,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
