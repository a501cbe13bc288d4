package projections

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/samber/lo"

	"mergington/internal/domain/activity"
)

// GetActivitiesStore defines the store interface needed by the activities listing.
type GetActivitiesStore interface {
	List(ctx context.Context) ([]activity.Activity, error)
}

// GetActivitiesDeps holds dependencies for the activities listing.
type GetActivitiesDeps struct {
	ActivityStore GetActivitiesStore
}

// ActivityView is the public shape of one activity.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ActivityViews maps activity names to views and remembers the order the
// store listed them in. It encodes as a JSON object whose keys follow that order.
type ActivityViews struct {
	names  []string
	byName map[string]ActivityView
}

// Len returns the number of activities.
func (v ActivityViews) Len() int {
	return len(v.names)
}

// Names returns the activity names in listing order.
func (v ActivityViews) Names() []string {
	return append([]string(nil), v.names...)
}

// Get returns the view for name.
func (v ActivityViews) Get(name string) (ActivityView, bool) {
	view, ok := v.byName[name]
	return view, ok
}

// MarshalJSON writes {"name": view, ...} in listing order.
func (v ActivityViews) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range v.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// QueryGetActivities returns every activity keyed by name, in the order the store lists them.
// PRE: none
// POST: Each view holds a copy of the roster in signup order; participants is never nil
func QueryGetActivities(ctx context.Context, deps GetActivitiesDeps) (ActivityViews, error) {
	list, err := deps.ActivityStore.List(ctx)
	if err != nil {
		return ActivityViews{}, err
	}

	return ActivityViews{
		names: lo.Uniq(lo.Map(list, func(a activity.Activity, _ int) string { return a.Name })),
		byName: lo.SliceToMap(list, func(a activity.Activity) (string, ActivityView) {
			a = a.Clone()
			return a.Name, ActivityView{
				Description:     a.Description,
				Schedule:        a.Schedule,
				MaxParticipants: a.MaxParticipants,
				Participants:    a.Participants,
			}
		}),
	}, nil
}
