package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/notify"
)

func TestDetectInformationHolderResource(t *testing.T) {
	pair := func(holder, store string) domain.ServicePair {
		return domain.ServicePair{Holder: holder, Store: store}
	}

	t.Run("exclusive holder is a candidate", func(t *testing.T) {
		// P calls only S; S has no other callers and no outgoing calls
		g := buildGraph([2]string{"web", "P"}, [2]string{"P", "S"})
		v := NewDirectedView(g)

		res := DetectInformationHolderResource(v, nil, Options{})

		assert.True(t, res.Candidates[pair("P", "S")])
		assert.Empty(t, res.Violators)
	})

	t.Run("holder with other dependencies is a violator", func(t *testing.T) {
		g := buildGraph([2]string{"P", "S"}, [2]string{"P", "catalog"}, [2]string{"catalog", "P"})
		v := NewDirectedView(g)

		res := DetectInformationHolderResource(v, nil, Options{})

		assert.True(t, res.Violators[pair("P", "S")])
		assert.False(t, res.Candidates[pair("P", "S")])
	})

	t.Run("parallel edges still count as one predecessor", func(t *testing.T) {
		g := buildGraph([2]string{"P", "S"}, [2]string{"P", "S"}, [2]string{"web", "P"})
		v := NewDirectedView(g)

		res := DetectInformationHolderResource(v, nil, Options{})
		assert.True(t, res.Candidates[pair("P", "S")])
	})

	t.Run("declared store with no callers stays a no-IHR violator", func(t *testing.T) {
		g := buildGraph([2]string{"web", "cart"})
		g.AddNode(nodeFor("D"))
		v := NewDirectedView(g)

		res := DetectInformationHolderResource(v, map[string]bool{"D": true}, Options{})

		assert.True(t, res.DatabaseNoIHRViolators["D"])
		assert.Empty(t, res.Candidates)
		assert.Empty(t, res.Violators)
		assert.Empty(t, res.DatabaseCallViolators)
	})

	t.Run("declared store with multiple callers stays a no-IHR violator", func(t *testing.T) {
		g := buildGraph([2]string{"a", "D"}, [2]string{"b", "D"})
		v := NewDirectedView(g)

		res := DetectInformationHolderResource(v, map[string]bool{"D": true}, Options{})

		assert.True(t, res.DatabaseNoIHRViolators["D"])
		assert.Empty(t, res.Candidates)
	})

	t.Run("single caller clears the no-IHR flag even for a violator pair", func(t *testing.T) {
		g := buildGraph([2]string{"P", "D"}, [2]string{"P", "catalog"}, [2]string{"web", "P"}, [2]string{"web", "catalog"})
		v := NewDirectedView(g)

		res := DetectInformationHolderResource(v, map[string]bool{"D": true}, Options{})

		assert.True(t, res.Violators[pair("P", "D")])
		assert.False(t, res.DatabaseNoIHRViolators["D"])
	})

	t.Run("declared store with outgoing calls is a call violator", func(t *testing.T) {
		g := buildGraph([2]string{"D", "other"}, [2]string{"P", "D"}, [2]string{"web", "P"})
		v := NewDirectedView(g)

		res := DetectInformationHolderResource(v, map[string]bool{"D": true}, Options{})

		assert.True(t, res.DatabaseCallViolators["D"])
		// declared stores are still inspected for a holder despite calling out
		assert.False(t, res.DatabaseNoIHRViolators["D"])
		assert.True(t, res.Candidates[pair("P", "D")])
	})

	t.Run("undeclared sink with one exclusive caller is found without declarations", func(t *testing.T) {
		g := buildGraph([2]string{"web", "orders"}, [2]string{"orders", "orders-db"})
		v := NewDirectedView(g)

		res := DetectInformationHolderResource(v, nil, Options{})
		assert.True(t, res.Candidates[pair("orders", "orders-db")])
	})

	t.Run("unknown declared name stays flagged but harmless", func(t *testing.T) {
		g := buildGraph([2]string{"web", "cart"})
		v := NewDirectedView(g)

		res := DetectInformationHolderResource(v, map[string]bool{"ghost": true}, Options{})
		assert.True(t, res.DatabaseNoIHRViolators["ghost"])
		assert.Empty(t, res.DatabaseCallViolators)
	})

	t.Run("notifications cover all four finding types", func(t *testing.T) {
		g := buildGraph(
			[2]string{"web", "P"},
			[2]string{"P", "S"},        // candidate (P, S)
			[2]string{"D", "other"},    // D declared, calls out
			[2]string{"x", "other"},    // other has two callers
		)
		g.AddNode(nodeFor("lonely-db"))
		v := NewDirectedView(g)

		sink := &notify.CaptureSink{}
		res := DetectInformationHolderResource(v, map[string]bool{"D": true, "lonely-db": true}, Options{User: "ops", Sink: sink})

		require.True(t, res.Candidates[pair("P", "S")])
		require.True(t, res.DatabaseCallViolators["D"])
		require.True(t, res.DatabaseNoIHRViolators["lonely-db"])

		kinds := map[domain.PatternKind]bool{}
		for _, n := range sink.Notifications {
			assert.Equal(t, "ops", n.User)
			kinds[n.Kind] = true
		}
		assert.True(t, kinds[domain.PatternIHRCandidate])
		assert.True(t, kinds[domain.PatternDatabaseCall])
		assert.True(t, kinds[domain.PatternDatabaseNoIHR])
	})

	t.Run("repeated invocation yields identical collections", func(t *testing.T) {
		g := buildGraph([2]string{"web", "P"}, [2]string{"P", "S"}, [2]string{"a", "D"}, [2]string{"b", "D"})
		v := NewDirectedView(g)
		dbs := map[string]bool{"D": true}

		r1 := DetectInformationHolderResource(v, dbs, Options{})
		r2 := DetectInformationHolderResource(v, dbs, Options{})
		assert.Equal(t, r1, r2)
	})
}
