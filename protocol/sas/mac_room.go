//go:build unstable_pre_spec

package sas

import "key-verification/events/verification"

// RoomMacContent builds the in-room MAC content. The flow id is the event id
// of the relation.
func (s *SAS) RoomMacContent(p Parties, keys map[string]string, relatesTo verification.Relation) (*verification.RoomMacContent, error) {
	p.FlowID = relatesTo.EventID
	mac, keyMac, err := s.macs(p, keys)
	if err != nil {
		return nil, err
	}
	return verification.NewRoomMacContent(mac, keyMac, relatesTo)
}

// VerifyRoomMac is VerifyDeviceMac for in-room flows.
func (s *SAS) VerifyRoomMac(p Parties, content *verification.RoomMacContent, theirKeys map[string]string) ([]string, error) {
	if content.FlowID() != p.FlowID {
		return nil, ErrFlowMismatch
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return s.verifyMacs(p.Swap(), content.Mac, content.Keys, theirKeys)
}
