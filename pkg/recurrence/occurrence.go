package recurrence

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/teamcal/teamcal/pkg/event"
)

// Series identifies the event an occurrence was generated from.
type Series struct {
	BaseID     string
	Index      int
	IsInstance bool
}

// Occurrence is an event placed in one calendar slot. For generated instances
// Id is "{eventId}-recurrence-{n}" and StartsAt/EndsAt are shifted to the slot.
type Occurrence struct {
	event.Event
	Series Series
}

// BaseID returns the id of the stored event behind o.
func (o Occurrence) BaseID() string {
	if o.Series.BaseID != "" {
		return o.Series.BaseID
	}
	if base, _, ok := ParseID(o.Id); ok {
		return base
	}
	return o.Id
}

var instanceIDPattern = regexp.MustCompile(`^(.+)-recurrence-(\d+)$`)

func InstanceID(baseID string, index int) string {
	return fmt.Sprintf("%s-recurrence-%d", baseID, index)
}

// ParseID splits an instance id into its base id and index. ok is false for
// ids that do not follow the instance format.
func ParseID(id string) (baseID string, index int, ok bool) {
	match := instanceIDPattern.FindStringSubmatch(id)
	if match == nil {
		return id, 0, false
	}
	index, err := strconv.Atoi(match[2])
	if err != nil {
		return id, 0, false
	}
	return match[1], index, true
}

// Single wraps a non-recurring event as its only occurrence.
func Single(e event.Event) Occurrence {
	return Occurrence{Event: e, Series: Series{BaseID: e.Id}}
}
