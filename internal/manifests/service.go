package manifests

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/starship-devnet/starship/internal/util/labels"
	"github.com/starship-devnet/starship/internal/util/naming"
)

var serviceType = metav1.TypeMeta{APIVersion: "v1", Kind: "Service"}

// GenesisService is the headless service of the genesis node.
func (g *Generator) GenesisService() *corev1.Service {
	return g.headlessService(naming.Genesis(g.chain.Host), labels.RoleGenesis)
}

// ValidatorService is the headless service of the validator set. It
// returns nil when the chain runs only the genesis node.
func (g *Generator) ValidatorService() *corev1.Service {
	if !g.features.HasValidators {
		return nil
	}
	return g.headlessService(naming.Validator(g.chain.Host), labels.RoleValidator)
}

func (g *Generator) headlessService(name, role string) *corev1.Service {
	return &corev1.Service{
		TypeMeta:   serviceType,
		ObjectMeta: g.objectMeta(name, role),
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Ports:     servicePorts(g.chain, g.features),
			Selector:  labels.Selector(g.chain.Host, role),
		},
	}
}
