package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTransferReference builds a human-readable unique reference for a
// transfer request, e.g. TR-20250114-9F3A2C.
func NewTransferReference(now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("TR-%s-%s", now.Format("20060102"), short)
}
