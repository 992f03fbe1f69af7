// utils/ids.go
package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSessionID builds an opaque play-session identifier. It embeds the user
// id, game id and a millisecond timestamp for log greppability, plus a random
// suffix for uniqueness. Callers must treat the result as opaque: no ordering
// or parsing guarantees.
func NewSessionID(userID, gameID string, now time.Time) string {
	return fmt.Sprintf("ps-%s-%s-%d-%s", userID, gameID, now.UnixMilli(), randSuffix())
}

// NewChallengeID is the same shape as NewSessionID but backs friend-challenge
// links, not sessions.
func NewChallengeID(userID, gameID string, now time.Time) string {
	return fmt.Sprintf("ch-%s-%s-%d-%s", userID, gameID, now.UnixMilli(), randSuffix())
}

func randSuffix() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
