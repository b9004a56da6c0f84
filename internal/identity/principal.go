package identity

// Principal is the authenticated identity snapshot attached to a request.
// It is built once by the bearer middleware and treated as immutable for
// the lifetime of one authorization decision.
type Principal struct {
	ID          string
	Email       string
	DisplayName string
	GroupIDs    []string
	Department  string
}

// InGroup reports whether the principal carries the given directory group id.
func (p Principal) InGroup(groupID string) bool {
	if groupID == "" {
		return false
	}
	for _, id := range p.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}
