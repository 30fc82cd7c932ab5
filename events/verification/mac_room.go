//go:build unstable_pre_spec

package verification

import (
	"key-verification/common"
	"key-verification/events"
)

// RoomVerificationEnabled reports whether this build carries the in-room
// verification contents.
const RoomVerificationEnabled = true

// RoomMacContent is the in-room m.key.verification.mac content. It has no
// transaction id; the flow is identified by the event the relation points at.
type RoomMacContent struct {
	// Mac maps each key id to the MAC of the key, unpadded base64.
	Mac MacMap `json:"mac"`

	// Keys is the MAC of Mac.KeyList(), unpadded base64.
	Keys string `json:"keys"`

	// RelatesTo points at the event that started the verification.
	RelatesTo Relation `json:"m.relates_to"`

	Extra common.Object `json:"-"`
}

// NewRoomMacContent builds an in-room content from already computed MACs.
// Besides the mac checks of NewDeviceMacContent the relation must be complete.
func NewRoomMacContent(mac map[string]string, keys string, relatesTo Relation) (*RoomMacContent, error) {
	if err := checkMac(mac); err != nil {
		return nil, invalidArgument(err)
	}
	if !relatesTo.Valid() {
		return nil, invalidArgument(&ValidationError{Kind: BadRelation})
	}
	relatesTo.Extra = relatesTo.Extra.Clone()
	return &RoomMacContent{
		Mac:       MacMap(mac).clone(),
		Keys:      keys,
		RelatesTo: relatesTo,
	}, nil
}

func (c *RoomMacContent) EventType() events.Type  { return MacEventType }
func (c *RoomMacContent) Channel() events.Channel { return events.Room }

// KeyList is the input of the Keys MAC, see MacMap.KeyList.
func (c *RoomMacContent) KeyList() string { return c.Mac.KeyList() }

// FlowID is the id of the event that started the verification.
func (c *RoomMacContent) FlowID() string {
	return c.RelatesTo.EventID
}

// Validate checks the same invariants as DeviceMacContent.Validate and then
// the relation.
func (c *RoomMacContent) Validate() error {
	if err := checkMac(c.Mac); err != nil {
		return err
	}
	if err := checkKeys(c.Keys); err != nil {
		return err
	}
	if !c.RelatesTo.Valid() {
		return &ValidationError{Kind: BadRelation}
	}
	return nil
}

func (c *RoomMacContent) Encode() ([]byte, error) {
	data, err := c.MarshalJSON()
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return data, nil
}

func (c RoomMacContent) MarshalJSON() ([]byte, error) {
	type plain RoomMacContent
	if c.Mac == nil {
		c.Mac = MacMap{}
	}
	return common.MergeObject(plain(c), c.Extra)
}

// DecodeRoomMacContent parses an in-room MAC content. Only the shape is
// checked; call Validate before trusting the values.
func DecodeRoomMacContent(data []byte) (*RoomMacContent, error) {
	var c RoomMacContent
	if err := c.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *RoomMacContent) UnmarshalJSON(data []byte) error {
	obj, err := common.ParseObject(data)
	if err != nil {
		return typeMismatch("", err)
	}

	var parsed RoomMacContent
	if parsed.Mac, err = takeMac(obj, "mac"); err != nil {
		return err
	}
	if parsed.Keys, err = takeString(obj, "keys"); err != nil {
		return err
	}
	if parsed.RelatesTo, err = takeRelation(obj, "m.relates_to"); err != nil {
		return err
	}
	parsed.Extra = obj.Clone()

	*c = parsed
	return nil
}

func decodeRoomMac(data []byte) (events.Content, error) {
	return DecodeRoomMacContent(data)
}

func registerRoomMac(r *events.Registry) error {
	return r.Register(MacEventType, events.Room, decodeRoomMac)
}
