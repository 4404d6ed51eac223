package detect

import "sort"

var registered = map[string]GraphDetector{}

func Register(d GraphDetector) {
	if d == nil {
		return
	}
	registered[d.Name()] = d
}

func All() []GraphDetector {
	out := make([]GraphDetector, 0, len(registered))
	for _, d := range registered {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
