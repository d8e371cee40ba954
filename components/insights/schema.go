package insights

import "strings"

// RoleRequest describes how a semantic role maps onto a header: candidate
// name fragments plus an optional positional hint.
type RoleRequest struct {
	Fragments []string
	Hint      *int
}

// RoleSet holds the resolved header name per semantic role. An empty string
// means the role did not resolve and every feature depending on it is
// unavailable for the dataset; that is not an error.
type RoleSet struct {
	Date     string
	Product  string
	Revenue  string
	Campaign string
	Term     string
}

// HasDate reports whether date-dependent features are available.
func (r RoleSet) HasDate() bool { return r.Date != "" }

// HasRevenue reports whether revenue-dependent features are available.
func (r RoleSet) HasRevenue() bool { return r.Revenue != "" }

// ResolveRole finds the header satisfying the request. Priority: the header at
// the hint position, then the first header whose lowercase form equals a
// fragment, then the first whose lowercase form contains a fragment. First
// match in header order wins, so resolution is deterministic.
func ResolveRole(headers []string, req RoleRequest) (string, bool) {
	if req.Hint != nil && *req.Hint >= 0 && *req.Hint < len(headers) {
		return headers[*req.Hint], true
	}
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(h)
	}
	for i, h := range lowered {
		for _, frag := range req.Fragments {
			if h == frag {
				return headers[i], true
			}
		}
	}
	for i, h := range lowered {
		for _, frag := range req.Fragments {
			if frag != "" && strings.Contains(h, frag) {
				return headers[i], true
			}
		}
	}
	return "", false
}

// ResolveRoles applies the default role requests against a header list.
// Unresolved roles stay empty.
func ResolveRoles(headers []string) RoleSet {
	var roles RoleSet
	if h, ok := ResolveRole(headers, defaultRoleRequests["date"]); ok {
		roles.Date = h
	}
	if h, ok := ResolveRole(headers, defaultRoleRequests["product"]); ok {
		roles.Product = h
	}
	if h, ok := ResolveRole(headers, defaultRoleRequests["revenue"]); ok {
		roles.Revenue = h
	}
	if h, ok := ResolveRole(headers, defaultRoleRequests["campaign"]); ok {
		roles.Campaign = h
	}
	if h, ok := ResolveRole(headers, defaultRoleRequests["term"]); ok {
		roles.Term = h
	}
	return roles
}
