package domain

// Capability names an optional part of the contract model interface.
// Callers query support with Supports before relying on it.
type Capability string

// Capabilities that this model representation does not implement.
const (
	CapabilityChildResources     Capability = "child-resources"
	CapabilityTraits             Capability = "traits"
	CapabilitySecurityReferences Capability = "security-references"
	CapabilityBaseURIParameters  Capability = "base-uri-parameters"
	CapabilityMutation           Capability = "mutation"
)

// Unsupported returns the error every gated operation reports.
func Unsupported(c Capability, op string) error {
	return &UnsupportedCapabilityError{Capability: c, Op: op}
}
