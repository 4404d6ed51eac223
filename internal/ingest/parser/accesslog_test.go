package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUsers() *Users {
	return &Users{
		Boundaries: map[string]Boundary{
			"Visitor": {
				Start: time.Date(2023, 5, 11, 9, 41, 0, 0, time.UTC),
				End:   time.Date(2023, 5, 11, 9, 45, 0, 0, time.UTC),
			},
		},
		Instances: map[string][]Instance{
			"Visitor": {
				{ID: "11111111-1111-1111-1111-111111111111", Start: time.Date(2023, 5, 11, 9, 41, 1, 0, time.UTC)},
				{ID: "22222222-2222-2222-2222-222222222222", Start: time.Date(2023, 5, 11, 9, 43, 0, 0, time.UTC)},
			},
		},
	}
}

func writeServiceLog(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseAccessLog(t *testing.T) {
	t.Run("outbound calls land in user and instance pipelines", func(t *testing.T) {
		dir := t.TempDir()
		writeServiceLog(t, dir, "web.log", `some envoy banner line
{"start_time":"2023-05-11T09:42:00.000Z","upstream_cluster":"outbound|8080||cart.default.svc.cluster.local","path":"/api/cart/items"}
{"start_time":"2023-05-11T09:43:30.000Z","upstream_cluster":"outbound|8080||cart.default.svc.cluster.local","path":"/api/cart/items"}
`)

		acc := NewAccumulator()
		require.NoError(t, acc.ParseAccessLog(dir, "web.log", testUsers()))

		require.Len(t, acc.Pipelines["Visitor"], 2)
		assert.Equal(t, "web", acc.Pipelines["Visitor"][0].FromService)
		assert.Equal(t, "cart", acc.Pipelines["Visitor"][0].ToService)

		// first call during instance 0, second after instance 1 started
		require.Len(t, acc.Pipelines["Visitor_0"], 1)
		require.Len(t, acc.Pipelines["Visitor_1"], 1)

		key := CounterKey{FromService: "web", ToService: "cart", Endpoint: "/api/cart/items"}
		assert.Equal(t, 2, acc.Counters["Visitor"][key])
		assert.Equal(t, 1, acc.Counters["Visitor_0"][key])
	})

	t.Run("endpoint keeps only the first path segments", func(t *testing.T) {
		dir := t.TempDir()
		writeServiceLog(t, dir, "web.log", `{"start_time":"2023-05-11T09:42:00.000Z","upstream_cluster":"outbound|8080||cart.default.svc.cluster.local","path":"/api/cart/items/123/add/extra"}
`)

		acc := NewAccumulator()
		require.NoError(t, acc.ParseAccessLog(dir, "web.log", testUsers()))

		require.Len(t, acc.Pipelines["Visitor"], 1)
		assert.Equal(t, "/api/cart/items/123", acc.Pipelines["Visitor"][0].Endpoint)
	})

	t.Run("null path becomes root", func(t *testing.T) {
		dir := t.TempDir()
		writeServiceLog(t, dir, "web.log", `{"start_time":"2023-05-11T09:42:00.000Z","upstream_cluster":"outbound|8080||cart.default.svc.cluster.local","path":null}
`)

		acc := NewAccumulator()
		require.NoError(t, acc.ParseAccessLog(dir, "web.log", testUsers()))

		require.Len(t, acc.Pipelines["Visitor"], 1)
		assert.Equal(t, "/", acc.Pipelines["Visitor"][0].Endpoint)
	})

	t.Run("inbound clusters and malformed lines are skipped", func(t *testing.T) {
		dir := t.TempDir()
		writeServiceLog(t, dir, "web.log", `{"start_time":"2023-05-11T09:42:00.000Z","upstream_cluster":"inbound|8080||","path":"/x"}
{"start_time":"2023-05-11T09:42:00.000Z","upstream_cluster":
not json at all
`)

		acc := NewAccumulator()
		require.NoError(t, acc.ParseAccessLog(dir, "web.log", testUsers()))
		assert.Empty(t, acc.Pipelines)
	})

	t.Run("calls outside every user window are dropped", func(t *testing.T) {
		dir := t.TempDir()
		writeServiceLog(t, dir, "web.log", `{"start_time":"2023-05-11T23:00:00.000Z","upstream_cluster":"outbound|8080||cart.default.svc.cluster.local","path":"/x"}
`)

		acc := NewAccumulator()
		require.NoError(t, acc.ParseAccessLog(dir, "web.log", testUsers()))
		assert.Empty(t, acc.Pipelines)
	})

	t.Run("file name determines the calling service", func(t *testing.T) {
		dir := t.TempDir()
		writeServiceLog(t, dir, "orders.log", `{"start_time":"2023-05-11T09:42:00.000Z","upstream_cluster":"outbound|5432||orders-database.default.svc.cluster.local","path":"/query"}
`)

		acc := NewAccumulator()
		require.NoError(t, acc.ParseAccessLog(dir, "orders.log", testUsers()))

		require.Len(t, acc.Pipelines["Visitor"], 1)
		assert.Equal(t, "orders", acc.Pipelines["Visitor"][0].FromService)
		assert.Equal(t, "orders-database", acc.Pipelines["Visitor"][0].ToService)
	})
}
