//go:build unstable_pre_spec

package sas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"key-verification/events/verification"
)

func TestRoomMac(t *testing.T) {
	alice, bob := newDevices(t)
	relation := verification.NewReference("$request:example.org")

	content, err := alice.sas.RoomMacContent(aliceView, aliceKeys(alice), relation)
	require.NoError(t, err)
	assert.Equal(t, "$request:example.org", content.FlowID())

	data, err := content.Encode()
	require.NoError(t, err)
	received, err := verification.DecodeRoomMacContent(data)
	require.NoError(t, err)

	bobView := aliceView.Swap()
	bobView.FlowID = "$request:example.org"
	verified, err := bob.sas.VerifyRoomMac(bobView, received, aliceKeys(alice))
	assert.NoError(t, err)
	assert.Len(t, verified, 2)

	bobView.FlowID = "$other:example.org"
	_, err = bob.sas.VerifyRoomMac(bobView, received, aliceKeys(alice))
	assert.ErrorIs(t, err, ErrFlowMismatch)
}
