package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ffi-hr/portal/internal/core/domain"
)

const filterStateCollection = "employee_list_filters"

// FilterStateRepository implements ports.EmployeeListStateRepository, one
// document per user.
type FilterStateRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewFilterStateRepository(db *mongo.Database) *FilterStateRepository {
	return &FilterStateRepository{coll: db.Collection(filterStateCollection), now: time.Now}
}

type filterStateDoc struct {
	UserID    string                 `bson:"user_id"`
	Search    string                 `bson:"search"`
	Filters   domain.EmployeeFilters `bson:"filters"`
	Page      int                    `bson:"page"`
	PageSize  int                    `bson:"page_size"`
	UpdatedAt int64                  `bson:"updated_at"`
}

func toFilterStateDoc(userID string, st domain.EmployeeListState, now time.Time) filterStateDoc {
	return filterStateDoc{
		UserID:    userID,
		Search:    st.Search,
		Filters:   st.Filters,
		Page:      st.Page,
		PageSize:  st.PageSize,
		UpdatedAt: now.Unix(),
	}
}

func (d filterStateDoc) state() domain.EmployeeListState {
	st := domain.EmployeeListState{Search: d.Search, Filters: d.Filters, Page: d.Page, PageSize: d.PageSize}
	if st.Page < 1 {
		st.Page = 1
	}
	if st.PageSize < 1 {
		st.PageSize = domain.DefaultPageSize
	}
	return st
}

// EnsureIndexes creates the unique user index.
func (r *FilterStateRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create filter state index: %w", err)
	}
	return nil
}

func (r *FilterStateRepository) Get(ctx context.Context, userID string) (domain.EmployeeListState, error) {
	var doc filterStateDoc
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.DefaultEmployeeListState(), nil
	}
	if err != nil {
		return domain.EmployeeListState{}, fmt.Errorf("find filter state: %w", err)
	}
	return doc.state(), nil
}

func (r *FilterStateRepository) Save(ctx context.Context, userID string, st domain.EmployeeListState) error {
	doc := toFilterStateDoc(userID, st, r.now())
	_, err := r.coll.ReplaceOne(ctx, bson.M{"user_id": userID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save filter state: %w", err)
	}
	return nil
}
