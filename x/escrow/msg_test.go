package escrow

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/require"
)

func TestOpenMsgValidate(t *testing.T) {
	cases := map[string]struct {
		msg      OpenMsg
		wantErrs map[string]*errors.Error
	}{
		"valid": {
			msg: OpenMsg{Metadata: &custody.Metadata{Schema: 1}, Recipient: custodytest.NewIdentity(), Amount: 1},
			wantErrs: map[string]*errors.Error{
				"Metadata":  nil,
				"Recipient": nil,
				"Amount":    nil,
			},
		},
		"missing everything": {
			msg: OpenMsg{},
			wantErrs: map[string]*errors.Error{
				"Metadata":  errors.ErrMsg,
				"Recipient": errors.ErrEmpty,
				"Amount":    ErrInvalidAmount,
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantErrs {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestTargetValidate(t *testing.T) {
	meta := &custody.Metadata{Schema: 1}
	sender, recipient := custodytest.NewIdentity(), custodytest.NewIdentity()
	cases := map[string]struct {
		target   Target
		wantErrs map[string]*errors.Error
	}{
		"largest bump": {
			target: Target{Sender: sender, Recipient: recipient, Bump: 255, HasBump: true},
			wantErrs: map[string]*errors.Error{
				"Sender":    nil,
				"Recipient": nil,
				"Bump":      nil,
			},
		},
		"bump out of range": {
			target: Target{Sender: sender, Recipient: recipient, Bump: 256, HasBump: true},
			wantErrs: map[string]*errors.Error{
				"Sender":    nil,
				"Recipient": nil,
				"Bump":      errors.ErrInput,
			},
		},
		"missing parties": {
			target: Target{EscrowID: 1},
			wantErrs: map[string]*errors.Error{
				"Sender":    errors.ErrEmpty,
				"Recipient": errors.ErrEmpty,
				"Bump":      nil,
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			accept := &AcceptMsg{Metadata: meta, Target: tc.target}
			cancel := &CancelMsg{Metadata: meta, Target: tc.target}
			for field, want := range tc.wantErrs {
				assert.FieldError(t, accept.Validate(), field, want)
				assert.FieldError(t, cancel.Validate(), field, want)
			}
		})
	}
}

func TestTargetMsgSerialization(t *testing.T) {
	target := Target{
		Sender:    custodytest.NewIdentity(),
		Recipient: custodytest.NewIdentity(),
		EscrowID:  999,
		Bump:      0,
		HasBump:   true,
	}
	accept := &AcceptMsg{Metadata: &custody.Metadata{Schema: 1}, Target: target}
	raw, err := accept.Marshal()
	require.NoError(t, err)

	var got AcceptMsg
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, *accept, got)
	require.True(t, got.BumpSupplied())

	// Both messages share the wire format.
	var cancel CancelMsg
	require.NoError(t, cancel.Unmarshal(raw))
	assert.Equal(t, target, cancel.Target)

	require.False(t, Target{}.BumpSupplied())
	require.True(t, Target{Bump: 3}.BumpSupplied())
}
