package router

import (
	"sort"

	"store-rating/internal/transport/http/ez"
)

// Module mounts one role surface. pub serves unauthenticated routes; authed
// sits behind token authentication.
type Module interface {
	Mount(pub, authed ez.EZ)
}

// Modules without a Priority mount at 100; lower mounts first.
type prioritizer interface{ Priority() int }

func mountAll(mods []Module, pub, authed ez.EZ) {
	mods = append([]Module(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(pub, authed)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
