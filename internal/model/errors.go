package model

import "errors"

var (
	// ErrInvalidGeometry is returned for pallet specs with a non-positive side.
	ErrInvalidGeometry = errors.New("invalid pallet geometry")
	// ErrOwnerNotFound is returned when an owner id is not part of the plan.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrUnitNotFound is returned when a cargo unit id is unknown.
	ErrUnitNotFound = errors.New("cargo unit not found")
	// ErrStopNotFound is returned when a stop id is not part of the route.
	ErrStopNotFound = errors.New("stop not found")
	// ErrDoesNotFit is returned when a footprint is larger than the bed.
	ErrDoesNotFit = errors.New("footprint does not fit the bed")
	// ErrInvalidStopKind is returned for a stop kind outside the known set.
	ErrInvalidStopKind = errors.New("invalid stop kind")
)
