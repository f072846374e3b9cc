package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewIDAt returns "<prefix>-<unix millis>-<9 random chars>", the identifier
// shape used for posts, comments, threads, replies and events
func NewIDAt(prefix string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), random[:9])
}
