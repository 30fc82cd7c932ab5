//go:build unstable_pre_spec

package verification

import (
	"encoding/json"

	"key-verification/common"
)

// ReferenceRelType is the relation used to tie in-room verification events to
// the m.key.verification.request message that started the flow.
const ReferenceRelType = "m.reference"

// Relation is the m.relates_to member of an in-room verification event.
type Relation struct {
	RelType string `json:"rel_type"`
	EventID string `json:"event_id"`

	// Extra holds members other than rel_type and event_id.
	Extra common.Object `json:"-"`
}

// NewReference returns an m.reference relation to eventID.
func NewReference(eventID string) Relation {
	return Relation{RelType: ReferenceRelType, EventID: eventID}
}

// Valid reports whether both the relation kind and the event id are set.
func (r Relation) Valid() bool {
	return r.RelType != "" && r.EventID != ""
}

func (r Relation) MarshalJSON() ([]byte, error) {
	type plain Relation
	return common.MergeObject(plain(r), r.Extra)
}

func takeRelation(obj common.Object, name string) (Relation, error) {
	raw, ok := obj.Take(name)
	if !ok {
		return Relation{}, missingField(name)
	}
	members, err := common.ParseObject(raw)
	if err != nil {
		return Relation{}, typeMismatch(name, err)
	}

	var rel Relation
	for member, dst := range map[string]*string{"rel_type": &rel.RelType, "event_id": &rel.EventID} {
		value, ok := members.Take(member)
		if !ok {
			continue
		}
		if common.IsNull(value) {
			return Relation{}, typeMismatch(name, nil)
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return Relation{}, typeMismatch(name, err)
		}
	}
	rel.Extra = members.Clone()
	return rel, nil
}
