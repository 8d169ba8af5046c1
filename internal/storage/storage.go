package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlanArchive keeps the raw generative model responses that produced
// persisted plans, for auditing and prompt tuning.
type PlanArchive interface {
	// ArchiveRawPlan stores raw under a fresh key and returns that key.
	ArchiveRawPlan(ctx context.Context, userID int64, startDate time.Time, raw []byte) (string, error)
}

// PlanObjectKey builds the object key plans/<userID>/<YYYY-MM-DD>-<uuid>.json.
func PlanObjectKey(userID int64, startDate time.Time, id uuid.UUID) string {
	return fmt.Sprintf("plans/%d/%s-%s.json", userID, startDate.Format(time.DateOnly), id)
}
