package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/notify"
)

func TestDetectFrontendIntegration(t *testing.T) {
	t.Run("pure caller becomes a candidate", func(t *testing.T) {
		g := buildGraph([2]string{"web", "cart"}, [2]string{"web", "catalog"}, [2]string{"cart", "catalog"})
		v := NewDirectedView(g)

		candidates, violators := DetectFrontendIntegration(v, nil, Options{})

		assert.True(t, candidates["web"])
		assert.False(t, candidates["cart"])
		assert.Empty(t, violators)
	})

	t.Run("declared frontend with incoming calls is a violator", func(t *testing.T) {
		g := buildGraph([2]string{"web", "cart"}, [2]string{"cart", "web"})
		v := NewDirectedView(g)

		candidates, violators := DetectFrontendIntegration(v, map[string]bool{"web": true}, Options{})

		assert.True(t, violators["web"])
		assert.False(t, candidates["web"])
	})

	t.Run("declared frontend with no incoming calls only takes the candidate path", func(t *testing.T) {
		g := buildGraph([2]string{"web", "cart"})
		v := NewDirectedView(g)

		candidates, violators := DetectFrontendIntegration(v, map[string]bool{"web": true}, Options{})

		assert.True(t, candidates["web"])
		assert.Empty(t, violators)
	})

	t.Run("isolated node is neither", func(t *testing.T) {
		g := buildGraph([2]string{"web", "cart"})
		g.AddNode(nodeFor("batch"))
		v := NewDirectedView(g)

		candidates, violators := DetectFrontendIntegration(v, nil, Options{})

		assert.False(t, candidates["batch"])
		assert.False(t, violators["batch"])
	})

	t.Run("unknown declared name is a no-op", func(t *testing.T) {
		g := buildGraph([2]string{"web", "cart"})
		v := NewDirectedView(g)

		_, violators := DetectFrontendIntegration(v, map[string]bool{"ghost": true}, Options{})
		assert.Empty(t, violators)
	})

	t.Run("violator notification includes the in-degree", func(t *testing.T) {
		g := buildGraph([2]string{"web", "cart"}, [2]string{"cart", "web"}, [2]string{"catalog", "web"})
		v := NewDirectedView(g)

		sink := &notify.CaptureSink{}
		_, violators := DetectFrontendIntegration(v, map[string]bool{"web": true}, Options{User: "ops", Sink: sink})
		require.True(t, violators["web"])

		var found bool
		for _, n := range sink.Notifications {
			if n.Kind == "frontend_violation" {
				found = true
				assert.Equal(t, "ops", n.User)
				assert.Contains(t, n.Message, "in_degree=2")
			}
		}
		assert.True(t, found)
	})

	t.Run("repeated invocation yields identical sets", func(t *testing.T) {
		g := buildGraph([2]string{"web", "cart"}, [2]string{"cart", "db"})
		v := NewDirectedView(g)

		c1, v1 := DetectFrontendIntegration(v, map[string]bool{"cart": true}, Options{})
		c2, v2 := DetectFrontendIntegration(v, map[string]bool{"cart": true}, Options{})
		assert.Equal(t, c1, c2)
		assert.Equal(t, v1, v2)
	})
}
