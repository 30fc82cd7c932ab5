package sas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"key-verification/events/verification"
)

func aliceKeys(alice device) map[string]string {
	return map[string]string{
		"ed25519:ALICEDEVICE": alice.pair.Pub.Base64(),
		"ed25519:MASTERKEY":   "bWFzdGVyIHNpZ25pbmcga2V5",
	}
}

// sendOverWire encodes content the way the sender would and decodes it on the
// receiving side.
func sendOverWire(t *testing.T, content *verification.DeviceMacContent) *verification.DeviceMacContent {
	data, err := content.Encode()
	require.NoError(t, err)
	received, err := verification.DecodeDeviceMacContent(data)
	require.NoError(t, err)
	return received
}

func TestDeviceMacContent(t *testing.T) {
	alice, _ := newDevices(t)

	content, err := alice.sas.DeviceMacContent(aliceView, aliceKeys(alice))
	require.NoError(t, err)
	assert.Equal(t, "txn1", content.TransactionID)
	assert.Equal(t, []string{"ed25519:ALICEDEVICE", "ed25519:MASTERKEY"}, content.Mac.SortedKeyIDs())
	assert.NoError(t, content.Validate())

	_, err = alice.sas.DeviceMacContent(aliceView, map[string]string{})
	assert.ErrorIs(t, err, verification.ErrInvalidArgument)
}

func TestVerifyDeviceMac(t *testing.T) {
	alice, bob := newDevices(t)
	bobView := aliceView.Swap()

	content, err := alice.sas.DeviceMacContent(aliceView, aliceKeys(alice))
	require.NoError(t, err)

	verified, err := bob.sas.VerifyDeviceMac(bobView, sendOverWire(t, content), aliceKeys(alice))
	assert.NoError(t, err)
	assert.Equal(t, []string{"ed25519:ALICEDEVICE", "ed25519:MASTERKEY"}, verified)
}

func TestVerifyDeviceMacFailures(t *testing.T) {
	alice, bob := newDevices(t)
	bobView := aliceView.Swap()

	tests := []struct {
		name      string
		tamper    func(c *verification.DeviceMacContent)
		theirKeys func(keys map[string]string)
		view      func(p Parties) Parties
		expectErr error
	}{
		{
			name:      "key dropped from the mac",
			tamper:    func(c *verification.DeviceMacContent) { delete(c.Mac, "ed25519:MASTERKEY") },
			expectErr: ErrKeysMismatch,
		},
		{
			name:      "key added to the mac",
			tamper:    func(c *verification.DeviceMacContent) { c.Mac["ed25519:EXTRA"] = c.Mac["ed25519:MASTERKEY"] },
			expectErr: ErrKeysMismatch,
		},
		{
			name: "mac of one key swapped",
			tamper: func(c *verification.DeviceMacContent) {
				c.Mac["ed25519:MASTERKEY"], c.Mac["ed25519:ALICEDEVICE"] = c.Mac["ed25519:ALICEDEVICE"], c.Mac["ed25519:MASTERKEY"]
			},
			expectErr: ErrMacMismatch,
		},
		{
			name:      "published key differs",
			theirKeys: func(keys map[string]string) { keys["ed25519:ALICEDEVICE"] = "b3RoZXIga2V5" },
			expectErr: ErrMacMismatch,
		},
		{
			name: "no key known",
			theirKeys: func(keys map[string]string) {
				delete(keys, "ed25519:ALICEDEVICE")
				delete(keys, "ed25519:MASTERKEY")
			},
			expectErr: ErrNoVerifiedKeys,
		},
		{
			name:      "other flow",
			view:      func(p Parties) Parties { p.FlowID = "txn2"; return p },
			expectErr: ErrFlowMismatch,
		},
		{
			name:      "sender mixed up",
			view:      func(p Parties) Parties { p.OtherDevice = "MALLORY"; return p },
			expectErr: ErrKeysMismatch,
		},
		{
			name:      "keys not base64",
			tamper:    func(c *verification.DeviceMacContent) { c.Keys = "not base64 !!" },
			expectErr: verification.ErrBadBase64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := alice.sas.DeviceMacContent(aliceView, aliceKeys(alice))
			require.NoError(t, err)
			received := sendOverWire(t, content)
			if tt.tamper != nil {
				tt.tamper(received)
			}
			keys := aliceKeys(alice)
			if tt.theirKeys != nil {
				tt.theirKeys(keys)
			}
			view := bobView
			if tt.view != nil {
				view = tt.view(view)
			}

			verified, err := bob.sas.VerifyDeviceMac(view, received, keys)
			assert.ErrorIs(t, err, tt.expectErr)
			assert.Nil(t, verified)
		})
	}
}

func TestVerifyDeviceMacSkipsUnknownKeys(t *testing.T) {
	alice, bob := newDevices(t)

	content, err := alice.sas.DeviceMacContent(aliceView, aliceKeys(alice))
	require.NoError(t, err)

	known := aliceKeys(alice)
	delete(known, "ed25519:MASTERKEY")

	verified, err := bob.sas.VerifyDeviceMac(aliceView.Swap(), sendOverWire(t, content), known)
	assert.NoError(t, err)
	assert.Equal(t, []string{"ed25519:ALICEDEVICE"}, verified)
}
