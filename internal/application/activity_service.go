package application

import (
	"context"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
)

// ActivityService reads the append-only admin activity log.
type ActivityService struct {
	Activity repo.ActivityRepository
}

func NewActivityService(activity repo.ActivityRepository) *ActivityService {
	return &ActivityService{Activity: activity}
}

func (s *ActivityService) List(ctx context.Context, f repo.ActivityFilter) ([]entity.ActivityLog, int, error) {
	return s.Activity.List(ctx, f)
}

// Stream returns an iterator positioned after lastID. lastID zero starts
// from the beginning of the log.
func (s *ActivityService) Stream(lastID int64, batch int) *ActivityIterator {
	if batch <= 0 {
		batch = 100
	}
	return &ActivityIterator{repo: s.Activity, lastID: lastID, batch: batch}
}

// ActivityIterator walks the activity log in id order, fetching lazily in
// batches. Because it only remembers the last id it delivered, a consumer
// can drop the iterator and resume later from the same position; entries
// appended in the meantime are picked up by the next call.
type ActivityIterator struct {
	repo   repo.ActivityRepository
	lastID int64
	batch  int
	buf    []entity.ActivityLog
}

// Next returns the next entry, or (nil, nil) when the consumer has caught up
// with the head of the log. Callers poll again later to observe appends.
func (it *ActivityIterator) Next(ctx context.Context) (*entity.ActivityLog, error) {
	if len(it.buf) == 0 {
		entries, err := it.repo.ListAfter(ctx, it.lastID, it.batch)
		if err != nil {
			return nil, err
		}
		it.buf = entries
	}
	if len(it.buf) == 0 {
		return nil, nil
	}
	e := it.buf[0]
	it.buf = it.buf[1:]
	it.lastID = e.ID
	return &e, nil
}

// LastID reports the id of the last delivered entry, the resume position.
func (it *ActivityIterator) LastID() int64 {
	return it.lastID
}
