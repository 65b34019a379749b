// Package naming provides consistent naming functions for generated chain resources.
//
// Object names follow the pattern {host}-{role} for workloads and services
// and {purpose}-{host} for config maps, where host is the DNS-safe form of
// the chain id. In-cluster hostnames are built from the same names so that
// every cross reference between manifests is derived from one place.
package naming
