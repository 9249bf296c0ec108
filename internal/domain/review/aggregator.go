package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
)

const (
	AggregateType    = "Product"
	EventReviewAdded = "ReviewAdded"
)

var ErrInvalidReview = errors.New("invalid review")

// Submission is what a customer sends for a product.
type Submission struct {
	UserName string `json:"user_name" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

type ReviewAdded struct {
	ProductID string    `json:"product_id"`
	ReviewID  string    `json:"review_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	NewRating float64   `json:"new_rating"`
	Reviews   int       `json:"reviews"`
	AddedAt   time.Time `json:"added_at"`
}

// Aggregator appends reviews and keeps product rating and count derived
// from the review list.
type Aggregator struct {
	catalog    *catalog.Store
	eventStore store.EventStoreInterface
	validate   *validator.Validate
	now        func() time.Time
	log        *logrus.Entry
}

func NewAggregator(c *catalog.Store, es store.EventStoreInterface) *Aggregator {
	return &Aggregator{
		catalog:    c,
		eventStore: es,
		validate:   validator.New(),
		now:        time.Now,
		log:        logger.For("reviews"),
	}
}

// Add prepends a review and recomputes rating (mean, one decimal) and
// reviews (list length).
func (a *Aggregator) Add(ctx context.Context, productID string, sub Submission) (catalog.Review, catalog.Product, error) {
	sub.UserName = strings.TrimSpace(sub.UserName)
	if err := a.validate.Struct(sub); err != nil {
		return catalog.Review{}, catalog.Product{}, fmt.Errorf("%w: %v", ErrInvalidReview, err)
	}

	r := catalog.Review{
		ID:       uuid.New().String(),
		UserName: sub.UserName,
		Rating:   sub.Rating,
		Comment:  sub.Comment,
		Date:     a.now().Local(),
	}
	p, err := a.catalog.Update(productID, func(p *catalog.Product) error {
		p.ReviewsList = append([]catalog.Review{r}, p.ReviewsList...)
		p.Reviews = len(p.ReviewsList)
		p.Rating = MeanRating(p.ReviewsList)
		return nil
	})
	if err != nil {
		return catalog.Review{}, catalog.Product{}, err
	}

	event := ReviewAdded{
		ProductID: productID,
		ReviewID:  r.ID,
		UserName:  r.UserName,
		Rating:    r.Rating,
		NewRating: p.Rating,
		Reviews:   p.Reviews,
		AddedAt:   r.Date,
	}
	if _, err := a.eventStore.Append(ctx, productID, AggregateType, EventReviewAdded, event); err != nil {
		return catalog.Review{}, catalog.Product{}, fmt.Errorf("failed to record review: %w", err)
	}
	a.log.WithFields(logrus.Fields{"product_id": productID, "rating": p.Rating, "reviews": p.Reviews}).Info("review added")
	return r, p, nil
}

// MeanRating averages review ratings, rounded to one decimal.
func MeanRating(reviews []catalog.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}
