package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Boundary is one user's interval of activity, taken from the first and
// last timestamps of its locust log.
type Boundary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Instance marks the start of one spawned instance of a user.
type Instance struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
}

// Users holds the session windows detected from the load generator's logs.
type Users struct {
	Boundaries map[string]Boundary   `json:"boundaries"`
	Instances  map[string][]Instance `json:"instances"`
}

// locust timestamps look like "[2023-05-11 09:41:02,153" at line start
const locustTimeLayout = "2006-01-02 15:04:05.000"

var uuidRe = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// DetectUsers scans dir, where each user has its own subdirectory holding a
// locustfile.log. The first and last line timestamps bound the user's
// activity; every "Running user" line opens a new instance identified by
// the uuid on that line. timeDelta is added to every parsed timestamp to
// compensate clock skew between the load generator and the mesh.
func DetectUsers(dir string, timeDelta time.Duration) (*Users, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read users dir: %w", err)
	}

	users := &Users{
		Boundaries: map[string]Boundary{},
		Instances:  map[string][]Instance{},
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		user := entry.Name()

		b, err := os.ReadFile(filepath.Join(dir, user, "locustfile.log"))
		if err != nil {
			return nil, fmt.Errorf("read locust log for %s: %w", user, err)
		}
		lines := nonEmptyLines(string(b))
		if len(lines) == 0 {
			continue
		}

		first, err := parseLocustTime(lines[0])
		if err != nil {
			return nil, fmt.Errorf("parse first timestamp for %s: %w", user, err)
		}
		last, err := parseLocustTime(lines[len(lines)-1])
		if err != nil {
			return nil, fmt.Errorf("parse last timestamp for %s: %w", user, err)
		}
		users.Boundaries[user] = Boundary{
			Start: first.Add(timeDelta),
			End:   last.Add(timeDelta),
		}

		var instances []Instance
		for _, line := range lines {
			if !strings.Contains(line, "Running user") {
				continue
			}
			id := uuidRe.FindString(line)
			if id == "" {
				continue
			}
			t, err := parseLocustTime(line)
			if err != nil {
				continue
			}
			instances = append(instances, Instance{ID: id, Start: t.Add(timeDelta)})
		}
		users.Instances[user] = instances
	}

	return users, nil
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func parseLocustTime(line string) (time.Time, error) {
	if len(line) < 24 || line[0] != '[' {
		return time.Time{}, fmt.Errorf("line too short for locust timestamp: %q", line)
	}
	// "2023-05-11 09:41:02,153" with comma-separated millis
	ts := strings.Replace(line[1:24], ",", ".", 1)
	return time.Parse(locustTimeLayout, ts)
}
