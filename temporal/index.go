// Package temporal answers point-in-time lookups over effective-dated
// records: "as of date D, give me the record for key K".
//
// The index serves reads from immutable snapshots. A load builds a fresh
// snapshot off to the side and publishes it with a single atomic pointer
// swap, so concurrent readers never observe a partially-loaded index and
// lookups need no locks. There is no incremental merge: a load replaces
// the whole record set for its code system or namespace.
package temporal

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"refdata"
)

// Index is an in-memory temporal index for crosswalk entries and
// reference records. The zero value is not usable; call NewIndex.
type Index struct {
	crosswalks atomic.Pointer[crosswalkSnapshot]
	references atomic.Pointer[referenceSnapshot]
}

type crosswalkSnapshot struct {
	loadID uuid.UUID
	// Entries sorted ascending by effective date; insertion order is
	// preserved among equal dates.
	byCurrent  map[refdata.CodeSystem]map[string][]refdata.CrosswalkEntry
	byPrevious map[refdata.CodeSystem]map[string][]refdata.CrosswalkEntry
}

type referenceSnapshot struct {
	loadID     uuid.UUID
	namespaces map[string]map[string][]refdata.ReferenceRecord
}

func NewIndex() *Index {
	ix := &Index{}
	ix.crosswalks.Store(&crosswalkSnapshot{
		byCurrent:  map[refdata.CodeSystem]map[string][]refdata.CrosswalkEntry{},
		byPrevious: map[refdata.CodeSystem]map[string][]refdata.CrosswalkEntry{},
	})
	ix.references.Store(&referenceSnapshot{
		namespaces: map[string]map[string][]refdata.ReferenceRecord{},
	})
	return ix
}

// ReplaceCrosswalk swaps in a new entry set for one code system, leaving
// other systems untouched. Codes are normalized and entries sorted at
// load so lookups are allocation-free scans. Returns the load ID of the
// published snapshot.
func (ix *Index) ReplaceCrosswalk(system refdata.CodeSystem, entries []refdata.CrosswalkEntry) uuid.UUID {
	byCurrent := make(map[string][]refdata.CrosswalkEntry)
	byPrevious := make(map[string][]refdata.CrosswalkEntry)
	for _, e := range entries {
		e.PreviousCode = refdata.NormalizeCode(e.PreviousCode)
		e.CurrentCode = refdata.NormalizeCode(e.CurrentCode)
		e.System = system
		byCurrent[e.CurrentCode] = append(byCurrent[e.CurrentCode], e)
		byPrevious[e.PreviousCode] = append(byPrevious[e.PreviousCode], e)
	}
	for _, m := range []map[string][]refdata.CrosswalkEntry{byCurrent, byPrevious} {
		for _, list := range m {
			sort.SliceStable(list, func(i, j int) bool {
				return list[i].EffectiveDate.Before(list[j].EffectiveDate)
			})
		}
	}

	old := ix.crosswalks.Load()
	next := &crosswalkSnapshot{
		loadID:     uuid.New(),
		byCurrent:  make(map[refdata.CodeSystem]map[string][]refdata.CrosswalkEntry, len(old.byCurrent)+1),
		byPrevious: make(map[refdata.CodeSystem]map[string][]refdata.CrosswalkEntry, len(old.byPrevious)+1),
	}
	for sys, m := range old.byCurrent {
		next.byCurrent[sys] = m
	}
	for sys, m := range old.byPrevious {
		next.byPrevious[sys] = m
	}
	next.byCurrent[system] = byCurrent
	next.byPrevious[system] = byPrevious
	ix.crosswalks.Store(next)
	return next.loadID
}

// ReplaceReference swaps in a new record set for one namespace. End
// dates carrying the "no data" sentinel are normalized to the open-ended
// sentinel here, never treated as literal near-past dates.
func (ix *Index) ReplaceReference(namespace string, records []refdata.ReferenceRecord) uuid.UUID {
	byKey := make(map[string][]refdata.ReferenceRecord)
	for _, r := range records {
		r.EndDate = refdata.NormalizeEndDate(r.EndDate)
		byKey[r.EntityKey] = append(byKey[r.EntityKey], r)
	}
	for _, list := range byKey {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].EffectiveDate.Before(list[j].EffectiveDate)
		})
	}

	old := ix.references.Load()
	next := &referenceSnapshot{
		loadID:     uuid.New(),
		namespaces: make(map[string]map[string][]refdata.ReferenceRecord, len(old.namespaces)+1),
	}
	for ns, m := range old.namespaces {
		next.namespaces[ns] = m
	}
	next.namespaces[namespace] = byKey
	ix.references.Store(next)
	return next.loadID
}

// LatestAtOrBefore returns the reference record with the greatest
// effective date at or before asOf. Equal effective dates resolve to the
// record closest to the end of the load batch; callers must not depend
// on more than "deterministic single winner". A false result means no
// historical data, not an error.
func (ix *Index) LatestAtOrBefore(_ context.Context, namespace, key string, asOf time.Time) (refdata.ReferenceRecord, bool, error) {
	list := ix.references.Load().namespaces[namespace][key]
	for i := len(list) - 1; i >= 0; i-- {
		if !list[i].EffectiveDate.After(asOf) {
			return list[i], true, nil
		}
	}
	return refdata.ReferenceRecord{}, false, nil
}

// EarliestAfter returns the reference record with the smallest effective
// date strictly after asOf.
func (ix *Index) EarliestAfter(_ context.Context, namespace, key string, asOf time.Time) (refdata.ReferenceRecord, bool, error) {
	list := ix.references.Load().namespaces[namespace][key]
	for _, r := range list {
		if r.EffectiveDate.After(asOf) {
			return r, true, nil
		}
	}
	return refdata.ReferenceRecord{}, false, nil
}

// AllAtOrBefore returns every reference record for key with an effective
// date at or before asOf, ascending by effective date.
func (ix *Index) AllAtOrBefore(_ context.Context, namespace, key string, asOf time.Time) ([]refdata.ReferenceRecord, error) {
	list := ix.references.Load().namespaces[namespace][key]
	cut := len(list)
	for i, r := range list {
		if r.EffectiveDate.After(asOf) {
			cut = i
			break
		}
	}
	if cut == 0 {
		return nil, nil
	}
	out := make([]refdata.ReferenceRecord, cut)
	copy(out, list[:cut])
	return out, nil
}

// EarliestCurrentAfter returns the crosswalk entry with the smallest
// effective date strictly after asOf whose current code is code: the
// next future change of that code.
func (ix *Index) EarliestCurrentAfter(_ context.Context, system refdata.CodeSystem, code string, asOf time.Time) (refdata.CrosswalkEntry, bool, error) {
	list := ix.crosswalks.Load().byCurrent[system][refdata.NormalizeCode(code)]
	for _, e := range list {
		if e.EffectiveDate.After(asOf) {
			return e, true, nil
		}
	}
	return refdata.CrosswalkEntry{}, false, nil
}

// AllPreviousAtOrBefore returns every crosswalk entry effective at or
// before asOf whose previous code is code, ascending by effective date.
func (ix *Index) AllPreviousAtOrBefore(_ context.Context, system refdata.CodeSystem, code string, asOf time.Time) ([]refdata.CrosswalkEntry, error) {
	list := ix.crosswalks.Load().byPrevious[system][refdata.NormalizeCode(code)]
	var out []refdata.CrosswalkEntry
	for _, e := range list {
		if e.EffectiveDate.After(asOf) {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

// CrosswalkLoadID returns the load ID of the currently published
// crosswalk snapshot, for audit logging.
func (ix *Index) CrosswalkLoadID() uuid.UUID {
	return ix.crosswalks.Load().loadID
}

// ReferenceLoadID returns the load ID of the currently published
// reference snapshot.
func (ix *Index) ReferenceLoadID() uuid.UUID {
	return ix.references.Load().loadID
}
