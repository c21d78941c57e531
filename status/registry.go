// Package status is a lock-free metrics registry shared by the rig and its control surface
package status

import "sync/atomic"

// Registry holds every published metric by type
// Writers cache pointers once; the host loop stores into atomics and readers never block it
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Key scopes a metric name to an instance, "" for process-wide metrics
func Key(instanceID, name string) string {
	if instanceID == "" {
		return name
	}
	return instanceID + "." + name
}

// Snapshot copies every metric into a flat map for serialization
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = v.Load() })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *AtomicFloat) { out[k] = v.Get() })
	r.Strings.Range(func(k string, v *AtomicString) { out[k] = v.Load() })
	return out
}

// Forget removes every metric scoped to instanceID
func (r *Registry) Forget(instanceID string) {
	if instanceID == "" {
		return
	}
	prefix := instanceID + "."
	r.Bools.Delete(prefix)
	r.Ints.Delete(prefix)
	r.Floats.Delete(prefix)
	r.Strings.Delete(prefix)
}
