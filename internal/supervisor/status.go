package supervisor

import (
	"context"
	"encoding/json"

	"github.com/wI2L/jsondiff"

	"github.com/goxlr-daemon/goxlrd/internal/device"
)

// AggregatedStatus is the Supervisor's whole-daemon status object (§4.9),
// keyed by serial so JSON-Patch paths stay stable across devices coming
// and going in unrelated positions of a map iteration.
type AggregatedStatus struct {
	Devices map[string]device.Status `json:"devices"`
}

// buildStatus round-trips every running device's current status via its
// command sink, per §4.9's "rebuild a status object by round-tripping
// every running device's current profile via its command sink".
func (s *Supervisor) buildStatus() AggregatedStatus {
	serials := s.Serials()
	out := AggregatedStatus{Devices: make(map[string]device.Status, len(serials))}
	for _, serial := range serials {
		v, err := s.Submit(context.Background(), serial, device.GetStatus())
		if err != nil {
			// The device stopped between Serials() and this round-trip;
			// it will simply be absent from this status cycle and the
			// next PnP/state-update cycle will reconcile it.
			continue
		}
		out.Devices[serial] = v.(device.Status)
	}
	return out
}

// publishStatusDiff computes the new aggregated status, diffs it against
// the previously published snapshot, and broadcasts a JSON-Patch only if
// the two differ. It returns the new snapshot bytes for the caller to
// retain as the next comparison baseline.
func (s *Supervisor) publishStatusDiff(last []byte) []byte {
	current, err := json.Marshal(s.buildStatus())
	if err != nil {
		s.logger.Error("supervisor: marshalling status failed", "error", err)
		return last
	}
	if last == nil {
		return current
	}

	patch, err := jsondiff.CompareJSON(last, current)
	if err != nil {
		s.logger.Error("supervisor: computing status patch failed", "error", err)
		return current
	}
	if len(patch) == 0 {
		return current
	}

	body, err := json.Marshal(patch)
	if err != nil {
		s.logger.Error("supervisor: marshalling status patch failed", "error", err)
		return current
	}
	s.broadcaster.Publish(body)
	return current
}
