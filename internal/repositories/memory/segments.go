package memory

import (
	"context"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.SegmentRepository = (*SegmentRepository)(nil)

// SegmentRepository stores segments in memory
type SegmentRepository struct {
	db *db
}

// Create inserts a new segment
func (r *SegmentRepository) Create(_ context.Context, segment *models.Segment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	segment.ID = primitive.NewObjectID()
	segment.CreatedAt = now
	segment.UpdatedAt = now
	r.db.segments[segment.ID] = copySegment(*segment)
	return nil
}

// FindByID finds a segment owned by ownerID
func (r *SegmentRepository) FindByID(_ context.Context, id, ownerID primitive.ObjectID) (*models.Segment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.segments[id]
	if !ok || s.UserID != ownerID {
		return nil, repositories.ErrNotFound
	}
	s = copySegment(s)
	return &s, nil
}

// FindByOwner lists the owner's segments newest first
func (r *SegmentRepository) FindByOwner(_ context.Context, ownerID primitive.ObjectID) ([]*models.Segment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []*models.Segment{}
	for _, s := range r.db.segments {
		if s.UserID == ownerID {
			s := copySegment(s)
			out = append(out, &s)
		}
	}
	sortNewest(out, func(s *models.Segment) (time.Time, primitive.ObjectID) { return s.CreatedAt, s.ID })
	return out, nil
}

// Update replaces a segment owned by segment.UserID
func (r *SegmentRepository) Update(_ context.Context, segment *models.Segment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.segments[segment.ID]
	if !ok || existing.UserID != segment.UserID {
		return repositories.ErrNotFound
	}
	segment.UpdatedAt = time.Now()
	r.db.segments[segment.ID] = copySegment(*segment)
	return nil
}

// Delete deletes a segment owned by ownerID
func (r *SegmentRepository) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.segments[id]
	if !ok || s.UserID != ownerID {
		return repositories.ErrNotFound
	}
	delete(r.db.segments, id)
	return nil
}

// CountByOwner counts the owner's segments
func (r *SegmentRepository) CountByOwner(_ context.Context, ownerID primitive.ObjectID) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, s := range r.db.segments {
		if s.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func copySegment(s models.Segment) models.Segment {
	s.Rules = append([]models.Rule(nil), s.Rules...)
	return s
}
