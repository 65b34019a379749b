// Package labels provides consistent labeling for generated chain workloads.
//
// Labels follow the app.kubernetes.io recommended keys so that services can
// select the pods of a single chain role, plus a starship.io/* set that
// identifies the network, chain and role of every generated object.
package labels
