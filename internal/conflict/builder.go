package conflict

import "coursecast/internal/catalog"

// Builder interface is designed to turn raw per-section rows into an
// annotated catalog carrying mutual-exclusion group memberships.
type Builder interface {
	// Annotate expands term and day codes, detects pairwise schedule
	// conflicts and alternate-section groupings, and returns every
	// section with the union of its qualifying group ids. The result is
	// deterministic and idempotent for identical input.
	Annotate(rows []catalog.RawSection) ([]catalog.CourseRecord, error)
}

func NewBuilder(crossListings CrossListTable) Builder {
	return &builderImplementation{crossListings: crossListings}
}
