package domain

import "errors"

// ErrKeyNotFound is returned by a store when a key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// ErrTourNotFound is returned when a tour ID is not in the loaded catalog.
var ErrTourNotFound = errors.New("tour not found")

// ErrNoMatchingPage is returned when no page of a tour matches the current URL.
var ErrNoMatchingPage = errors.New("no matching page for current url")

// ErrNoActiveTour is returned when a navigation command arrives while no tour is live.
var ErrNoActiveTour = errors.New("no active tour")

// ErrPageOutOfRange is returned when a tour is started at a page index it does not have.
var ErrPageOutOfRange = errors.New("page index out of range")

// ErrInvalidTour is returned when a tour document fails validation.
var ErrInvalidTour = errors.New("invalid tour definition")

// ErrUnavailable is returned when the host application cannot serve tour data.
var ErrUnavailable = errors.New("tour data unavailable")

// ErrUnauthenticated is returned when the host application rejects the session.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrEndpointNotFound is returned when the host application does not expose the ClickPath endpoint.
var ErrEndpointNotFound = errors.New("clickpath endpoint not found")
