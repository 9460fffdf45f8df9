/*
Package domain contains the core domain models of the ClickPath tour engine.

It defines the authored tour documents, the runtime cursor of an active tour,
the progress records it emits and the geometry shared by the positioner and the
rendering adapters. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - TourDefinition: An authored tour (Trigger, Pages, Settings). Immutable once loaded.
  - TourPage: A URL-matching rule plus the ordered Steps shown on matching pages.
  - TourStep: A target selector with fallbacks, tooltip text and display hints.
  - TourState: The runtime cursor (page index, step index, timestamps) of the live tour.
  - TourProgress: The record reported to the progress store when a tour ends.
  - StepView: A structural representation of what the overlay should render.
*/
package domain
