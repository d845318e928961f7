package service

import (
	"context"
	"errors"
	"reflect"

	"github.com/iliyamo/vidtube/internal/apperr"
	"github.com/iliyamo/vidtube/internal/repository"
)

var (
	// ErrResourceNotFound is wrapped by the NotFound rejection of Authorize.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrNotOwner is wrapped by the Forbidden rejection of Authorize.
	ErrNotOwner = errors.New("not the owner of this resource")
)

// Ownable is any resource with an immutable owner.
type Ownable interface {
	Owner() string
}

// Authorize permits a mutation of res by actor. Existence is checked
// before ownership, so a missing resource is never reported as an
// ownership failure. Owners are compared by id value.
func Authorize(res Ownable, actor string) error {
	if isNil(res) {
		return apperr.Wrap(apperr.KindNotFound, "resource not found", ErrResourceNotFound)
	}
	if actor == "" || res.Owner() != actor {
		return apperr.Wrap(apperr.KindForbidden, "you are not allowed to modify this resource", ErrNotOwner)
	}
	return nil
}

func isNil(res Ownable) bool {
	if res == nil {
		return true
	}
	v := reflect.ValueOf(res)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// loadOwned resolves id with load and runs Authorize on the result. what
// names the resource in the NotFound message.
func loadOwned[T Ownable](ctx context.Context, load func(context.Context, string) (T, error), id, actor, what string) (T, error) {
	var zero T
	v, err := load(ctx, id)
	var res Ownable
	switch {
	case err == nil:
		res = v
	case errors.Is(err, repository.ErrNotFound):
		// res stays nil
	default:
		return zero, apperr.Internal("failed to load "+what, err)
	}
	if err := Authorize(res, actor); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return zero, apperr.Wrap(apperr.KindNotFound, what+" not found", ErrResourceNotFound)
		}
		return zero, err
	}
	return v, nil
}

// mutationErr reports a write that failed after the guard passed. A row
// that no longer matches the owner predicate means it was deleted or
// changed hands in between.
func mutationErr(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Internal(what+" was not applied", err)
	}
	return apperr.Internal("failed to "+what, err)
}
