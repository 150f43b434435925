package valuation

import (
	"motorsportstakes/internal/models"
)

// ResultsIndex maps race id -> driver id -> finishing position.
type ResultsIndex map[uint64]map[uint64]int

// Calculator produces the baseline ("expected position") an entity is judged
// against. Zero-valued fields fall back to the published game defaults.
type Calculator struct {
	GhostPosition int
	Window        int
}

func (c Calculator) ghost() int {
	if c.GhostPosition > 0 {
		return c.GhostPosition
	}
	return DefaultGhostPosition
}

func (c Calculator) window() int {
	if c.Window > 0 {
		return c.Window
	}
	return DefaultWindow
}

// DriverBaseline averages the driver's positions over the races immediately
// preceding the target race in chronological order. The season's first race
// (round 1) is judged against pure ghost slots, ignoring any stored history.
// A slot with no recorded result contributes the ghost position rather than
// being skipped, so the average is always over exactly Window values. The
// second return is false when the target race cannot be located at all; the
// caller treats that as "no prior data", a 0% change.
func (c Calculator) DriverBaseline(races []models.Race, targetRaceID uint64, results ResultsIndex, driverID uint64) (float64, bool) {
	idx := -1
	for i := range races {
		if races[i].ID == targetRaceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, false
	}

	ghost := c.ghost()
	window := c.window()

	if races[idx].Round == 1 {
		return float64(ghost), true
	}

	sum := 0
	for k := idx - window; k < idx; k++ {
		pos := ghost
		if k >= 0 {
			if byDriver, ok := results[races[k].ID]; ok {
				if p, ok := byDriver[driverID]; ok && p > 0 {
					pos = p
				}
			}
		}
		sum += pos
	}
	return float64(sum) / float64(window), true
}

// WindowRaceIDs returns the ids of the races whose results feed the baseline
// for the target race, so a pass can load them in one query.
func (c Calculator) WindowRaceIDs(races []models.Race, targetRaceID uint64) []uint64 {
	idx := -1
	for i := range races {
		if races[i].ID == targetRaceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	window := c.window()
	ids := make([]uint64, 0, window)
	for k := idx - window; k < idx; k++ {
		if k >= 0 {
			ids = append(ids, races[k].ID)
		}
	}
	return ids
}
