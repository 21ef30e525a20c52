package annotate

import (
	"reflect"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
)

// Apply propagates cross-references from an annotated dataset back into the
// canonical one, keyed by (unit, property). Only non-empty annotation values
// overwrite; a record the annotated pass never matched is left untouched.
// Returns the updated records and the number of records that changed.
func Apply(base, annotated []domain.UnitRecord) ([]domain.UnitRecord, int) {
	byKey := make(map[domain.Key]domain.UnitRecord, len(annotated))
	for _, rec := range annotated {
		byKey[rec.Key()] = rec
	}

	out := make([]domain.UnitRecord, 0, len(base))
	changed := 0
	for _, rec := range base {
		source, ok := byKey[rec.Key()]
		if !ok {
			out = append(out, rec)
			continue
		}
		updated := false
		if len(source.ExternalIDs) > 0 && !reflect.DeepEqual(rec.ExternalIDs, source.ExternalIDs) {
			rec.ExternalIDs = source.ExternalIDs
			updated = true
		}
		if len(source.OntologyMetadata) > 0 && !reflect.DeepEqual(rec.OntologyMetadata, source.OntologyMetadata) {
			rec.OntologyMetadata = source.OntologyMetadata
			updated = true
		}
		if updated {
			changed++
		}
		out = append(out, rec)
	}
	return out, changed
}
