package portfolio

import "github.com/heartmarshall/creditdispute-backend/internal/domain"

// MaxAttentionLimit caps the per-bucket limit a caller may request.
const MaxAttentionLimit = 100

// SnapshotInput tunes a snapshot request. A zero AttentionLimit uses the
// configured default.
type SnapshotInput struct {
	AttentionLimit int
}

func (i SnapshotInput) Validate() error {
	if i.AttentionLimit < 0 || i.AttentionLimit > MaxAttentionLimit {
		return domain.NewValidationError("attention_limit", "must be between 0 and 100")
	}
	return nil
}
