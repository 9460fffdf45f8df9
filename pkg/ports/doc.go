/*
Package ports defines the driven ports (interfaces) for the ClickPath engine.

These interfaces decouple the tour engine from external implementations, allowing
it to work with various storage backends, data sources and rendering surfaces.

# Key Interfaces

  - Store: A key-value store for cached tours, theme colors and completion markers.
  - TourSource: Fetches a catalog of tours (host application, bundled files).
  - ProgressSink: Receives the TourProgress record emitted when a tour ends.
  - Page: Read access to the page being toured (URL, element geometry, viewport).
  - Overlay: The rendering adapter that draws the highlight and the tooltip.
*/
package ports
