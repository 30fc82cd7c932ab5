// Package verification holds the contents of the m.key.verification.* events
// exchanged during interactive device verification.
//
// Only the MAC confirmation step lives here. Computing and checking the MAC
// values is done by the sas package; this package guarantees the shape of
// the payload and that it survives a trip over the wire.
package verification

import (
	"encoding/json"
	"sort"
	"strings"

	"key-verification/common"
	"key-verification/crypto/unpadded"
	"key-verification/events"
)

const MacEventType events.Type = "m.key.verification.mac"

// MacMap maps a key id ("<algorithm>:<id>") to the unpadded base64 MAC of
// that key.
type MacMap map[string]string

// SortedKeyIDs returns the key ids in ascending byte order.
func (m MacMap) SortedKeyIDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// KeyList is the comma-separated sorted list of key ids. It is the input of
// the MAC carried in the keys field.
func (m MacMap) KeyList() string {
	return strings.Join(m.SortedKeyIDs(), ",")
}

func (m MacMap) clone() MacMap {
	out := make(MacMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ValidKeyID checks the lexical form <algorithm>:<id>. Whether the algorithm
// is one the verifier accepts is not checked here.
func ValidKeyID(keyID string) bool {
	algorithm, id, ok := strings.Cut(keyID, ":")
	return ok && algorithm != "" && id != "" && !strings.ContainsAny(algorithm, " \t\r\n")
}

func checkMac(mac MacMap) error {
	if len(mac) == 0 {
		return &ValidationError{Kind: EmptyMac}
	}
	for _, id := range mac.SortedKeyIDs() {
		if !ValidKeyID(id) {
			return &ValidationError{Kind: BadKeyIDFormat, KeyID: id}
		}
	}
	return nil
}

func checkKeys(keys string) error {
	if !unpadded.Valid(keys) {
		return &ValidationError{Kind: BadBase64}
	}
	return nil
}

// DeviceMacContent is the to-device m.key.verification.mac content. It is
// scoped to a verification by the transaction id of the start message.
type DeviceMacContent struct {
	// TransactionID must match the one of the m.key.verification.start message.
	TransactionID string `json:"transaction_id"`

	// Mac maps each key id to the MAC of the key, unpadded base64.
	Mac MacMap `json:"mac"`

	// Keys is the MAC of Mac.KeyList(), unpadded base64.
	Keys string `json:"keys"`

	// Extra keeps members this version does not know about.
	Extra common.Object `json:"-"`
}

// NewDeviceMacContent builds a content from already computed MACs. The map is
// copied. Keys is not checked for base64 here, Validate does that.
func NewDeviceMacContent(transactionID string, mac map[string]string, keys string) (*DeviceMacContent, error) {
	if err := checkMac(mac); err != nil {
		return nil, invalidArgument(err)
	}
	return &DeviceMacContent{
		TransactionID: transactionID,
		Mac:           MacMap(mac).clone(),
		Keys:          keys,
	}, nil
}

func (c *DeviceMacContent) EventType() events.Type  { return MacEventType }
func (c *DeviceMacContent) Channel() events.Channel { return events.ToDevice }

// KeyList is the input of the Keys MAC, see MacMap.KeyList.
func (c *DeviceMacContent) KeyList() string { return c.Mac.KeyList() }

// Validate returns the first violated invariant: empty mac, then malformed
// key ids in sorted order, then keys not being unpadded base64.
func (c *DeviceMacContent) Validate() error {
	if err := checkMac(c.Mac); err != nil {
		return err
	}
	return checkKeys(c.Keys)
}

// Encode serializes the content, extra members included.
func (c *DeviceMacContent) Encode() ([]byte, error) {
	data, err := c.MarshalJSON()
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return data, nil
}

func (c DeviceMacContent) MarshalJSON() ([]byte, error) {
	type plain DeviceMacContent
	if c.Mac == nil {
		c.Mac = MacMap{}
	}
	return common.MergeObject(plain(c), c.Extra)
}

// DecodeDeviceMacContent parses a to-device MAC content. Only the shape is
// checked; call Validate before trusting the values.
func DecodeDeviceMacContent(data []byte) (*DeviceMacContent, error) {
	var c DeviceMacContent
	if err := c.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *DeviceMacContent) UnmarshalJSON(data []byte) error {
	obj, err := common.ParseObject(data)
	if err != nil {
		return typeMismatch("", err)
	}

	var parsed DeviceMacContent
	if parsed.TransactionID, err = takeString(obj, "transaction_id"); err != nil {
		return err
	}
	if parsed.Mac, err = takeMac(obj, "mac"); err != nil {
		return err
	}
	if parsed.Keys, err = takeString(obj, "keys"); err != nil {
		return err
	}
	parsed.Extra = obj.Clone()

	*c = parsed
	return nil
}

func decodeDeviceMac(data []byte) (events.Content, error) {
	return DecodeDeviceMacContent(data)
}

func takeString(obj common.Object, name string) (string, error) {
	raw, ok := obj.Take(name)
	if !ok {
		return "", missingField(name)
	}
	if common.IsNull(raw) {
		return "", typeMismatch(name, nil)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", typeMismatch(name, err)
	}
	return s, nil
}

func takeMac(obj common.Object, name string) (MacMap, error) {
	raw, ok := obj.Take(name)
	if !ok {
		return nil, missingField(name)
	}
	members, err := common.ParseObject(raw)
	if err != nil {
		return nil, typeMismatch(name, err)
	}
	mac := make(MacMap, len(members))
	for id, value := range members {
		// null would silently become "" in a map[string]string
		if common.IsNull(value) {
			return nil, typeMismatch(name, nil)
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, typeMismatch(name, err)
		}
		mac[id] = s
	}
	return mac, nil
}

// Register binds the MAC contents to their event type on every channel this
// build supports.
func Register(r *events.Registry) error {
	if err := r.Register(MacEventType, events.ToDevice, decodeDeviceMac); err != nil {
		return err
	}
	return registerRoomMac(r)
}

// NewRegistry returns a registry with the verification contents registered.
func NewRegistry() *events.Registry {
	r := events.NewRegistry()
	if err := Register(r); err != nil {
		// a fresh registry cannot hold duplicates
		panic(err)
	}
	return r
}
