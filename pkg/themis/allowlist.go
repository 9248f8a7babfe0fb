// Package themis decides which host directories may be bound into
// ephemeral storage for a given variant.
package themis

import (
	"sort"
	"strings"
)

// Variant markers that extend the base allow list.
const (
	markerKubernetes = "k8s"
	markerECS        = "ecs"
)

// AllowedDirs returns the directories that may be bound to ephemeral
// storage for the given variant. Pure: evaluated fresh on every call, no
// I/O, no caching.
func AllowedDirs(variant string) map[string]struct{} {
	allowed := map[string]struct{}{
		"/var/lib/containerd":      {},
		"/var/lib/host-containerd": {},
	}
	if strings.Contains(variant, markerKubernetes) {
		allowed["/var/lib/kubelet"] = struct{}{}
		allowed["/var/log/pods"] = struct{}{}
	}
	if strings.Contains(variant, markerECS) {
		allowed["/var/lib/docker"] = struct{}{}
		allowed["/var/log/ecs"] = struct{}{}
	}
	return allowed
}

// SortedDirs is AllowedDirs as a deterministic list, for display.
func SortedDirs(variant string) []string {
	allowed := AllowedDirs(variant)
	dirs := make([]string, 0, len(allowed))
	for dir := range allowed {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
