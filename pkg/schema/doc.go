// Package schema validates and decodes tour documents.
//
// Tours are authored as JSON (or YAML) and checked against an embedded JSON
// Schema before being unmarshaled into domain.TourDefinition:
//
//	tour, err := schema.DecodeTour(raw)
//	if errors.Is(err, domain.ErrInvalidTour) {
//	    // Report and drop the document
//	}
//
// DecodeTours applies the same rule to a batch and keeps every tour that
// passes, so one malformed record never hides the others.
package schema
