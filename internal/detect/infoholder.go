package detect

import (
	"fmt"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/notify"
)

// IHRResult groups the four collections produced by information holder
// resource detection.
type IHRResult struct {
	// Candidates are (holder, store) pairs where the holder is the store's
	// only caller and calls nothing else.
	Candidates map[domain.ServicePair]bool
	// Violators are (holder, store) pairs where the holder is the store's
	// only caller but also calls other services.
	Violators map[domain.ServicePair]bool
	// DatabaseCallViolators are declared stores that make outgoing calls.
	DatabaseCallViolators map[string]bool
	// DatabaseNoIHRViolators are declared stores for which no holder was
	// found (anything but exactly one predecessor).
	DatabaseNoIHRViolators map[string]bool
}

// DetectInformationHolderResource finds (holder, store) pairs in the call
// graph. A node is store-like when it has no outgoing calls or is declared
// in databaseServices. If such a node has exactly one predecessor, that
// predecessor is its holder: a candidate when the holder calls only this
// node, a violator otherwise.
//
// Only the exactly-one-predecessor path clears a declared store from the
// no-IHR violator set; stores with zero or multiple callers stay flagged.
// A declared store with outgoing calls is recorded as a call violator
// independently of its predecessor structure.
func DetectInformationHolderResource(view DirectedView, databaseServices map[string]bool, opts Options) IHRResult {
	opts = opts.withDefaults()

	res := IHRResult{
		Candidates:             map[domain.ServicePair]bool{},
		Violators:              map[domain.ServicePair]bool{},
		DatabaseCallViolators:  map[string]bool{},
		DatabaseNoIHRViolators: map[string]bool{},
	}
	for s := range databaseServices {
		if databaseServices[s] {
			res.DatabaseNoIHRViolators[s] = true
		}
	}

	for _, node := range view.Nodes() {
		outDegree := view.OutDegree(node)
		zeroDegree := outDegree == 0
		isDatabase := databaseServices[node]

		if zeroDegree || isDatabase {
			if preds := view.Predecessors(node); len(preds) == 1 {
				pred := preds[0]
				pair := domain.ServicePair{Holder: pred, Store: node}
				if view.OutDegree(pred) == 1 {
					res.Candidates[pair] = true
					opts.Sink.Notify(notify.Notification{
						User: opts.User,
						Kind: domain.PatternIHRCandidate,
						Message: fmt.Sprintf("Information Holder Resource - '%s' is a potential IHR for '%s'",
							pred, node),
					})
				} else {
					res.Violators[pair] = true
					opts.Sink.Notify(notify.Notification{
						User: opts.User,
						Kind: domain.PatternIHRViolation,
						Message: fmt.Sprintf("Information Holder Resource Violation - '%s' is only accessed through '%s', but '%s' calls other services as well.",
							node, pred, pred),
					})
				}
				delete(res.DatabaseNoIHRViolators, node)
			}
		}

		if !zeroDegree && isDatabase {
			res.DatabaseCallViolators[node] = true
			opts.Sink.Notify(notify.Notification{
				User: opts.User,
				Kind: domain.PatternDatabaseCall,
				Message: fmt.Sprintf("Information Holder Resource Violation - '%s' is designated as database service but has outgoing calls (out_degree=%d)",
					node, outDegree),
			})
		}
	}

	for service := range res.DatabaseNoIHRViolators {
		opts.Sink.Notify(notify.Notification{
			User: opts.User,
			Kind: domain.PatternDatabaseNoIHR,
			Message: fmt.Sprintf("Information Holder Resource Violation - '%s' is designated as database service but no IHR detected.",
				service),
		})
	}

	return res
}
