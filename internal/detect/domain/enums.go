package domain

type NodeKind string

const (
	NodeService NodeKind = "SERVICE"
	NodeDB      NodeKind = "DATABASE"
)

type EdgeKind string

const (
	EdgeCalls EdgeKind = "CALLS"
)

type PatternKind string

const (
	PatternRequestBundle       PatternKind = "request_bundle"
	PatternFrontendCandidate   PatternKind = "frontend_candidate"
	PatternFrontendViolation   PatternKind = "frontend_violation"
	PatternIHRCandidate        PatternKind = "ihr_candidate"
	PatternIHRViolation        PatternKind = "ihr_violation"
	PatternDatabaseCall        PatternKind = "database_call_violation"
	PatternDatabaseNoIHR       PatternKind = "database_no_ihr_violation"
)

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)
