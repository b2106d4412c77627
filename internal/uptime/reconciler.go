package uptime

import "github.com/beacondev/beacon/internal/types"

// Transition records a status change decided by Reconcile.
type Transition struct {
	ServiceID uint
	OldStatus string
	NewStatus string
}

// Reconcile derives the service's displayed status from the latest probe
// result. The rules are deliberately asymmetric:
//
//   - down while "operational" moves to "partial_outage" and no further; the
//     monitor never escalates to "major_outage" on its own
//   - up while anything other than "operational" moves back to "operational",
//     but only when no active incident touches the service
//   - every other combination is a no-op, so human-set statuses
//     ("degraded", "major_outage", "maintenance") survive down probes
//
// The status is re-read just before writing to narrow the window against
// concurrent human edits. Returns nil when no transition happened. Dispatching
// notifications and broadcasts is the caller's job.
func Reconcile(store Store, serviceID uint, up bool) (*Transition, error) {
	status, err := store.ServiceStatus(serviceID)

	if err != nil {
		return nil, err
	}

	if !up && status == types.StatusOperational {
		if err := store.UpdateServiceStatus(serviceID, types.StatusPartialOutage); err != nil {
			return nil, err
		}

		return &Transition{
			ServiceID: serviceID,
			OldStatus: status,
			NewStatus: types.StatusPartialOutage,
		}, nil
	}

	if up && status != types.StatusOperational {
		activeIncidents, err := store.ActiveIncidentCount(serviceID)

		if err != nil {
			return nil, err
		}

		if activeIncidents == 0 {
			if err := store.UpdateServiceStatus(serviceID, types.StatusOperational); err != nil {
				return nil, err
			}

			return &Transition{
				ServiceID: serviceID,
				OldStatus: status,
				NewStatus: types.StatusOperational,
			}, nil
		}
	}

	return nil, nil
}
