// Package memory implements the repositories in process memory. It mirrors
// the MongoDB implementations, including owner scoping, unique indexes and
// the conditional campaign transitions, and is used for tests and local runs.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// db holds every collection behind one lock
type db struct {
	mu        sync.RWMutex
	users     map[primitive.ObjectID]models.User
	customers map[primitive.ObjectID]models.Customer
	segments  map[primitive.ObjectID]models.Segment
	campaigns map[primitive.ObjectID]models.Campaign
	messages  map[primitive.ObjectID]models.Message
	logs      map[primitive.ObjectID]models.CommunicationLog
	orders    map[primitive.ObjectID]models.Order
}

// NewStore returns a fresh, empty store
func NewStore() *repositories.Store {
	d := &db{
		users:     make(map[primitive.ObjectID]models.User),
		customers: make(map[primitive.ObjectID]models.Customer),
		segments:  make(map[primitive.ObjectID]models.Segment),
		campaigns: make(map[primitive.ObjectID]models.Campaign),
		messages:  make(map[primitive.ObjectID]models.Message),
		logs:      make(map[primitive.ObjectID]models.CommunicationLog),
		orders:    make(map[primitive.ObjectID]models.Order),
	}
	return &repositories.Store{
		Users:     &UserRepository{db: d},
		Customers: &CustomerRepository{db: d},
		Segments:  &SegmentRepository{db: d},
		Campaigns: &CampaignRepository{db: d},
		Messages:  &MessageRepository{db: d},
		Logs:      &CommunicationLogRepository{db: d},
		Orders:    &OrderRepository{db: d},
	}
}

// sortNewest orders items by createdAt descending, breaking ties by id
func sortNewest[T any](items []*T, key func(*T) (time.Time, primitive.ObjectID)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi.Hex() > idj.Hex()
	})
}

func limited[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
