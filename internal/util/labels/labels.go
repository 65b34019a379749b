package labels

// Recommended Kubernetes label keys used as service selectors.
const (
	KeyName      = "app.kubernetes.io/name"
	KeyInstance  = "app.kubernetes.io/instance"
	KeyType      = "app.kubernetes.io/type"
	KeyRawName   = "app.kubernetes.io/rawname"
	KeyVersion   = "app.kubernetes.io/version"
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// Starship label keys.
const (
	// KeyNetwork identifies the devnet a resource belongs to
	KeyNetwork = "starship.io/network"

	// KeyChainID carries the raw chain id (may contain characters not valid in names)
	KeyChainID = "starship.io/chain-id"

	// KeyRole identifies the bootstrap role of a workload (genesis, validator)
	KeyRole = "starship.io/role"
)

// Role values
const (
	RoleGenesis   = "genesis"
	RoleValidator = "validator"
	RoleSetup     = "setup"
)

// ManagedByStarship is the value of KeyManagedBy on every generated object.
const ManagedByStarship = "starship"

// LabelBuilder provides a fluent interface for building label sets.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the network name pre-set.
func NewLabelBuilder(network string) *LabelBuilder {
	lb := &LabelBuilder{
		labels: map[string]string{
			KeyManagedBy: ManagedByStarship,
		},
	}
	if network != "" {
		lb.labels[KeyNetwork] = network
	}
	return lb
}

// WithChain sets the instance, type and chain-id labels for a chain.
// host is the DNS-safe chain name, chainType the chain family (e.g. osmosis).
func (lb *LabelBuilder) WithChain(host, chainID, chainType string) *LabelBuilder {
	lb.labels[KeyInstance] = host
	lb.labels[KeyType] = chainType
	lb.labels[KeyRawName] = chainID
	lb.labels[KeyChainID] = chainID
	return lb
}

// WithRole sets the role label and the app name derived from host and role.
func (lb *LabelBuilder) WithRole(host, role string) *LabelBuilder {
	lb.labels[KeyRole] = role
	lb.labels[KeyName] = host + "-" + role
	return lb
}

// WithVersion adds a version label only if version is non-empty.
func (lb *LabelBuilder) WithVersion(version string) *LabelBuilder {
	if version != "" {
		lb.labels[KeyVersion] = version
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// Selector returns the minimal label set that selects the pods of one
// chain role. Services and StatefulSets use it verbatim so the two always
// agree.
func Selector(host, role string) map[string]string {
	return map[string]string{
		KeyInstance: host,
		KeyName:     host + "-" + role,
	}
}

// SelectorForNetwork returns a label selector string for all resources of a devnet.
func SelectorForNetwork(network string) string {
	return KeyNetwork + "=" + network
}
