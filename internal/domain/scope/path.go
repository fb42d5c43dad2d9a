package scope

import (
	"strconv"
	"strings"
)

const (
	orgsPrefix       = "/orgs"
	workspacesPrefix = "/workspaces/"
)

// Target is a parsed console path. Params are raw strings and may be malformed.
type Target struct {
	OrgParam       string
	WorkspaceParam string
	// Suffix is whatever followed the workspace segment, kept verbatim.
	Suffix string
	// Query is the raw query including its leading '?', or empty.
	Query string
}

func splitQuery(raw string) (string, string) {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i], raw[i:]
	}
	return raw, ""
}

// splitSegment cuts the first path segment off s.
func splitSegment(s string) (seg, rest string) {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// ParseOrgPath splits /orgs/{orgId}/workspaces/{workspaceId}{suffix}{?query}.
// It returns false when raw does not have that shape.
func ParseOrgPath(raw string) (Target, bool) {
	path, query := splitQuery(raw)
	rest, ok := strings.CutPrefix(path, orgsPrefix+"/")
	if !ok {
		return Target{}, false
	}
	org, rest := splitSegment(rest)
	rest, ok = strings.CutPrefix(rest, workspacesPrefix)
	if !ok {
		return Target{}, false
	}
	ws, suffix := splitSegment(rest)
	return Target{OrgParam: org, WorkspaceParam: ws, Suffix: suffix, Query: query}, true
}

// ParseLegacyPath splits /workspaces/{workspaceId}{suffix}{?query}.
func ParseLegacyPath(raw string) (Target, bool) {
	path, query := splitQuery(raw)
	rest, ok := strings.CutPrefix(path, workspacesPrefix)
	if !ok {
		return Target{}, false
	}
	ws, suffix := splitSegment(rest)
	return Target{WorkspaceParam: ws, Suffix: suffix, Query: query}, true
}

// IsOrgScopedPath reports whether path already carries org context.
func IsOrgScopedPath(raw string) bool {
	path, _ := splitQuery(raw)
	return path == orgsPrefix || strings.HasPrefix(path, orgsPrefix+"/")
}

// CanonicalPath builds /orgs/{orgID}/workspaces/{workspaceID}{suffix}{query}.
func CanonicalPath(orgID, workspaceID int64, suffix, query string) string {
	var b strings.Builder
	b.WriteString(orgsPrefix)
	b.WriteByte('/')
	b.WriteString(strconv.FormatInt(orgID, 10))
	b.WriteString(workspacesPrefix)
	b.WriteString(strconv.FormatInt(workspaceID, 10))
	b.WriteString(suffix)
	b.WriteString(query)
	return b.String()
}

// ParseID parses a strictly positive decimal id. Signs, spaces and empty strings are rejected.
func ParseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
