package entity

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/entdoc/internal/db"
	domentity "github.com/kailas-cloud/entdoc/internal/domain/entity"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
	"github.com/kailas-cloud/entdoc/internal/domain/validation"
	"github.com/kailas-cloud/entdoc/internal/metrics"
)

// Validate runs the synchronous rules of every field, then checks uniqueness
// for unique fields that passed and hold a value. Uniqueness checks run
// concurrently and all of them complete before the result is assembled.
// A non-nil error means a uniqueness query failed; errs is still returned.
func (s *Service) Validate(ctx context.Context, e *domentity.Entity) (validation.Errors, error) {
	errs := domentity.Check(e)

	sc := e.Schema()
	coll := s.store.Collection(sc.Collection())

	var (
		g   errgroup.Group
		mu  sync.Mutex
		dup []string
	)
	for _, p := range sc.Params() {
		if !p.Unique() {
			continue
		}
		if _, failed := errs[p.Name()]; failed {
			continue
		}
		value, _ := e.Get(p.Name())
		if validation.IsNil(value) {
			continue
		}

		name, filter := p.Name(), uniqueFilter(p, value, e.ID())
		g.Go(func() error {
			n, err := coll.CountDocuments(ctx, filter)
			if err != nil {
				return fmt.Errorf("unique check %s: %w", name, err)
			}
			if n > 0 {
				mu.Lock()
				dup = append(dup, name)
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()

	for _, name := range dup {
		errs.Add(name, validation.FieldError{
			Kind:    validation.KindUnique,
			Message: "value is already used by another document",
		})
	}
	return errs, err
}

// uniqueFilter matches other documents holding value under the param's alias.
func uniqueFilter(p schema.Param, value any, id primitive.ObjectID) db.Document {
	filter := db.Document{p.Alias(): value}
	if !id.IsZero() {
		filter[schema.IDField] = db.Document{"$ne": id}
	}
	return filter
}

func (s *Service) recordRejection(collection string, errs validation.Errors) {
	for _, fe := range errs {
		metrics.ValidationFailuresTotal.WithLabelValues(collection, string(fe.Kind)).Inc()
	}
}
