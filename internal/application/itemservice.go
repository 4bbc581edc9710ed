// Package application contains use-case orchestration services.
package application

import (
	"context"
)

// ListItem is a presentation-ready row: two lines of text and the action to
// run when the row is chosen. Select always closes over the single domain item
// the row was built from.
type ListItem struct {
	Title    string
	Subtitle string
	Select   func()
}

// ItemService loads the rows for one list screen. A call returns either the
// complete list or an error, never a partial result.
type ItemService interface {
	LoadItems(ctx context.Context) ([]ListItem, error)
}

// ItemServiceFunc adapts a plain function to the ItemService interface.
type ItemServiceFunc func(ctx context.Context) ([]ListItem, error)

// LoadItems calls f(ctx).
func (f ItemServiceFunc) LoadItems(ctx context.Context) ([]ListItem, error) {
	return f(ctx)
}

// fallbackService tries primary first and delegates to secondary exactly once
// if primary fails.
type fallbackService struct {
	primary   ItemService
	secondary ItemService
}

// Fallback returns an ItemService that returns primary's result when it
// succeeds and otherwise returns whatever secondary produces. secondary is not
// invoked when primary succeeds, and its failure is final.
//
// If ctx is already done when primary fails, secondary is skipped and
// primary's error is returned.
func Fallback(primary, secondary ItemService) ItemService {
	return &fallbackService{primary: primary, secondary: secondary}
}

func (s *fallbackService) LoadItems(ctx context.Context) ([]ListItem, error) {
	items, err := s.primary.LoadItems(ctx)
	if err == nil {
		return items, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	return s.secondary.LoadItems(ctx)
}

// Retry returns an ItemService that re-invokes svc immediately, up to n more
// times, while it keeps failing. It is built as n nested fallbacks to svc
// itself, so a Fallback wrapped around the result only fires once every
// attempt has failed. There is no delay between attempts.
func Retry(svc ItemService, n uint) ItemService {
	retried := svc
	for range n {
		retried = Fallback(retried, svc)
	}
	return retried
}
