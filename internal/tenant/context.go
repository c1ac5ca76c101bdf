// Package tenant carries the active property through a request.
//
// The value lives on the context, never on a pooled connection. Code that
// reads it without a prior Set sees property 0, which matches no rows.
package tenant

import (
	"context"
	"errors"
)

// NoProperty is the default-deny sentinel. No property row has this ID.
const NoProperty int64 = 0

var ErrNoTenant = errors.New("tenant context is not set")

type ctxKey struct{}

type scope struct {
	propertyID int64
	set        bool
}

// Set binds propertyID as the current property for everything derived from ctx.
func Set(ctx context.Context, propertyID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, scope{propertyID: propertyID, set: propertyID != NoProperty})
}

// Clear removes any current property from the derived context.
func Clear(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, scope{})
}

// FromContext returns the current property and whether one was set.
func FromContext(ctx context.Context) (int64, bool) {
	s, ok := ctx.Value(ctxKey{}).(scope)
	if !ok || !s.set {
		return NoProperty, false
	}
	return s.propertyID, true
}

// Current returns the current property, or NoProperty.
func Current(ctx context.Context) int64 {
	id, _ := FromContext(ctx)
	return id
}

// Require returns the current property or ErrNoTenant.
func Require(ctx context.Context) (int64, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return NoProperty, ErrNoTenant
	}
	return id, nil
}
