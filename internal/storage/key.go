package storage

import (
	"fmt"
	"time"

	"github.com/ridhwanrazaliwork/BlogPipe/internal/util"
)

// DeriveKey builds the storage key for one invocation: a sanitized topic slug
// plus a nanosecond timestamp. Two requests for the same topic therefore land
// under distinct keys and never overwrite each other.
func DeriveKey(topic string, now time.Time) string {
	return fmt.Sprintf("%s-%d", util.Slugify(topic), now.UnixNano())
}
