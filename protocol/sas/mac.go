package sas

import (
	"fmt"

	"key-verification/crypto/hmac"
	"key-verification/crypto/unpadded"
	"key-verification/events/verification"
)

// macs computes the MAC of every key and the MAC of the sorted key list.
// keys maps a key id to the public key it names, as published.
func (s *SAS) macs(p Parties, keys map[string]string) (verification.MacMap, string, error) {
	mac := make(verification.MacMap, len(keys))
	for keyID, key := range keys {
		value, err := s.CalculateMac(key, p.MacInfo(keyID))
		if err != nil {
			return nil, "", fmt.Errorf("failed to calculate mac of %s: %w", keyID, err)
		}
		mac[keyID] = value
	}
	keyMac, err := s.CalculateMac(mac.KeyList(), p.MacInfo(keyIDsInfo))
	if err != nil {
		return nil, "", fmt.Errorf("failed to calculate mac of key list: %w", err)
	}
	return mac, keyMac, nil
}

// DeviceMacContent builds the to-device MAC content confirming keys.
func (s *SAS) DeviceMacContent(p Parties, keys map[string]string) (*verification.DeviceMacContent, error) {
	mac, keyMac, err := s.macs(p, keys)
	if err != nil {
		return nil, err
	}
	return verification.NewDeviceMacContent(p.FlowID, mac, keyMac)
}

// VerifyDeviceMac checks a to-device MAC content sent by the other device. p
// is our own view of the flow and theirKeys the other device's published
// keys by key id. Keys we do not know are skipped; the verified key ids are
// returned in sorted order.
func (s *SAS) VerifyDeviceMac(p Parties, content *verification.DeviceMacContent, theirKeys map[string]string) ([]string, error) {
	if content.TransactionID != p.FlowID {
		return nil, ErrFlowMismatch
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return s.verifyMacs(p.Swap(), content.Mac, content.Keys, theirKeys)
}

func (s *SAS) verifyMacs(sender Parties, mac verification.MacMap, keyMac string, theirKeys map[string]string) ([]string, error) {
	expected, err := s.CalculateMac(mac.KeyList(), sender.MacInfo(keyIDsInfo))
	if err != nil {
		return nil, err
	}
	if !macEqual(expected, keyMac) {
		return nil, ErrKeysMismatch
	}

	var verified []string
	for _, keyID := range mac.SortedKeyIDs() {
		key, ok := theirKeys[keyID]
		if !ok {
			continue
		}
		expected, err := s.CalculateMac(key, sender.MacInfo(keyID))
		if err != nil {
			return nil, err
		}
		if !macEqual(expected, mac[keyID]) {
			return nil, fmt.Errorf("%w: %s", ErrMacMismatch, keyID)
		}
		verified = append(verified, keyID)
	}
	if len(verified) == 0 {
		return nil, ErrNoVerifiedKeys
	}
	return verified, nil
}

func macEqual(expected, received string) bool {
	a, err := unpadded.Decode(expected)
	if err != nil {
		return false
	}
	b, err := unpadded.Decode(received)
	if err != nil {
		return false
	}
	return hmac.Equal(a, b)
}
