// ABOUTME: Domain policy model deciding where the digest pipeline may run
// ABOUTME: Holds the allow/deny mode and the pattern lists read once per page load

package domain

// PolicyMode selects which pattern list gates activation
type PolicyMode string

const (
	// PolicyAllow enables the pipeline only on hosts matching the allow list
	PolicyAllow PolicyMode = "allow"

	// PolicyDeny enables the pipeline everywhere except hosts matching the deny list
	PolicyDeny PolicyMode = "deny"
)

// DomainPolicy gates pipeline activation per hostname.
// Patterns are plain domain suffixes, globs (* and ?), or /regex/ bodies.
type DomainPolicy struct {
	Mode      PolicyMode `json:"mode"`
	AllowList []string   `json:"allowList"`
	DenyList  []string   `json:"denyList"`
}

// DefaultPolicy returns the policy used before the user configures one
func DefaultPolicy() DomainPolicy {
	return DomainPolicy{Mode: PolicyDeny}
}

// Clone returns a deep copy of the policy
func (p DomainPolicy) Clone() DomainPolicy {
	return DomainPolicy{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		DenyList:  append([]string(nil), p.DenyList...),
	}
}
