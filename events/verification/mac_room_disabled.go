//go:build !unstable_pre_spec

package verification

import "key-verification/events"

// RoomVerificationEnabled reports whether this build carries the in-room
// verification contents. Build with -tags unstable_pre_spec to enable them.
const RoomVerificationEnabled = false

func registerRoomMac(r *events.Registry) error {
	return nil
}
