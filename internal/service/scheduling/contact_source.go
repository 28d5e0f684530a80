package scheduling

import (
	"context"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

// ContactSource streams eligible contacts from storage in
// batch_size-sized pages, bounding in-memory growth.
type ContactSource struct {
	repo      domain.ContactRepository
	batchSize int
}

func NewContactSource(repo domain.ContactRepository, batchSize int) *ContactSource {
	return &ContactSource{repo: repo, batchSize: batchSize}
}

func (s *ContactSource) Count(ctx context.Context) (int, error) {
	return s.repo.CountEligible(ctx)
}

// ForEachBatch invokes fn once per page of up to batchSize contacts
// until the source is exhausted.
func (s *ContactSource) ForEachBatch(ctx context.Context, fn func([]*domain.Contact) error) error {
	offset := 0
	for {
		batch, err := s.repo.FetchEligibleBatch(ctx, offset, s.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		if len(batch) < s.batchSize {
			return nil
		}
		offset += s.batchSize
	}
}
