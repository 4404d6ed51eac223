package parser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

// CounterKey aggregates calls by (from, to, endpoint).
type CounterKey struct {
	FromService string
	ToService   string
	Endpoint    string
}

type CallCounter map[CounterKey]int

// Accumulator collects per-label pipelines and call counters while service
// logs are parsed. Labels are users and user instances ("user_0", ...).
type Accumulator struct {
	Counters  map[string]CallCounter
	Pipelines map[string]domain.Pipeline
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		Counters:  map[string]CallCounter{},
		Pipelines: map[string]domain.Pipeline{},
	}
}

type accessLogEntry struct {
	StartTime       string `json:"start_time"`
	UpstreamCluster string `json:"upstream_cluster"`
	Path            *string `json:"path"`
}

// ParseAccessLog reads one service's envoy access log. The file is named
// after the calling service ("cart.log" means from_service = cart). Only
// JSON lines with an outbound upstream cluster count as calls; each call is
// attributed to the user whose activity window contains its start time and
// to the most recent instance of that user, updating both labels' pipeline
// and counter. Lines outside any user window and malformed lines are
// skipped.
func (a *Accumulator) ParseAccessLog(dir, filename string, users *Users) error {
	fromService := strings.SplitN(filename, ".", 2)[0]

	f, err := os.Open(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("open access log: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var entry accessLogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		startTime, err := parseStartTime(entry.StartTime)
		if err != nil {
			continue
		}

		user, ok := findUser(users, startTime)
		if !ok {
			continue
		}
		labels := []string{user}
		if inst, ok := findInstanceLabel(users.Instances[user], user, startTime); ok {
			labels = append(labels, inst)
		}

		toService, ok := outboundTarget(entry.UpstreamCluster)
		if !ok {
			continue
		}
		endpoint := truncateEndpoint(entry.Path)

		call := domain.Call{
			Time:        startTime,
			FromService: fromService,
			ToService:   toService,
			Endpoint:    endpoint,
		}
		key := CounterKey{fromService, toService, endpoint}
		for _, label := range labels {
			if a.Counters[label] == nil {
				a.Counters[label] = CallCounter{}
			}
			a.Counters[label][key]++
			a.Pipelines[label] = append(a.Pipelines[label], call)
		}
	}
	return sc.Err()
}

func parseStartTime(s string) (time.Time, error) {
	// envoy writes "2023-05-11T09:41:02.153Z"; locust windows are naive, so
	// the zone marker is dropped before comparison
	return time.Parse("2006-01-02T15:04:05", strings.TrimSuffix(s, "Z"))
}

func findUser(users *Users, t time.Time) (string, bool) {
	for user, b := range users.Boundaries {
		if t.After(b.Start) && t.Before(b.End) {
			return user, true
		}
	}
	return "", false
}

// findInstanceLabel picks the last instance started at or before t.
func findInstanceLabel(instances []Instance, user string, t time.Time) (string, bool) {
	idx := -1
	for i, inst := range instances {
		if !inst.Start.After(t) {
			idx = i
		}
	}
	if idx < 0 {
		return "", false
	}
	return fmt.Sprintf("%s_%d", user, idx), true
}

// outboundTarget extracts the called service from an envoy upstream cluster
// name like "outbound|8080||cart.default.svc.cluster.local".
func outboundTarget(cluster string) (string, bool) {
	parts := strings.Split(cluster, "|")
	if len(parts) < 4 || parts[0] != "outbound" {
		return "", false
	}
	return strings.SplitN(parts[3], ".", 2)[0], true
}

// truncateEndpoint keeps the first four path segments so that ids and query
// tails collapse onto the same endpoint.
func truncateEndpoint(path *string) string {
	p := "/"
	if path != nil && *path != "" {
		p = *path
	}
	parts := strings.Split(p, "/")
	if len(parts) > 5 {
		parts = parts[:5]
	}
	return strings.Join(parts, "/")
}
