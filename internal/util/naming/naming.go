package naming

import (
	"fmt"
	"strings"
)

// KeysConfigMap is the name of the shared mnemonic config map.
const KeysConfigMap = "keys"

// NamespaceVar is the shell variable holding the pod namespace at runtime.
const NamespaceVar = "$NAMESPACE"

// Host converts a chain id into a DNS-1123 label usable in object names.
func Host(chainID string) string {
	h := strings.ToLower(chainID)
	h = strings.NewReplacer("_", "-", ".", "-", " ", "-").Replace(h)
	return strings.Trim(h, "-")
}

func Genesis(host string) string {
	return fmt.Sprintf("%s-genesis", host)
}

func Validator(host string) string {
	return fmt.Sprintf("%s-validator", host)
}

func ScriptsConfigMap(host string) string {
	return fmt.Sprintf("setup-scripts-%s", host)
}

func GenesisPatchConfigMap(host string) string {
	return fmt.Sprintf("patch-%s", host)
}

func ConsumerProposalConfigMap(host string) string {
	return fmt.Sprintf("consumer-proposal-%s", host)
}

// ServiceDNS returns the in-cluster hostname of a service. The namespace is
// resolved by the shell inside the container.
func ServiceDNS(service string) string {
	return fmt.Sprintf("%s.%s.svc.cluster.local", service, NamespaceVar)
}

// GenesisDNS returns the in-cluster hostname of a chain's genesis service.
func GenesisDNS(host string) string {
	return ServiceDNS(Genesis(host))
}
