// Package manifests turns processed chain definitions into Kubernetes
// objects that bootstrap a devnet.
//
// Each chain yields a scripts ConfigMap, optional genesis-patch and
// consumer-proposal ConfigMaps, headless Services, a single-replica genesis
// StatefulSet and, for multi-validator chains, a validator StatefulSet. The
// bootstrap order between independently scheduled pods is encoded as init
// containers that poll the genesis node's exposer side-car.
//
// Generation is a pure function of the configuration; Writer performs the
// only side effect.
package manifests
