package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolDefaults(t *testing.T) {
	pool := Pool{}.withDefaults()
	assert.Equal(t, Pool{MaxOpen: 30, MaxIdle: 30, MaxIdleTime: 5 * time.Minute, MaxLifetime: 15 * time.Minute}, pool)

	pool = Pool{MaxOpen: 8, MaxIdle: 20}.withDefaults()
	assert.Equal(t, 8, pool.MaxOpen)
	assert.Equal(t, 8, pool.MaxIdle, "idle connections never exceed open ones")
}
