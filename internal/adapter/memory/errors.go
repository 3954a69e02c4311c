package memory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

func notFound(entity string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
}

func alreadyExists(entity string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
}
