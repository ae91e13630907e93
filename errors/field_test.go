package errors

import (
	"reflect"
	"testing"
)

// escrowErrors returns the errors an escrow with no parties and no funds
// reports from validation.
func escrowErrors() (sender, recipient, amount, all error) {
	sender = Field("Sender", ErrEmpty, "")
	recipient = Field("Recipient", ErrEmpty, "")
	amount = Field("Amount", ErrAmount, "must be positive")
	all = Append(sender, recipient, amount)
	return
}

func TestFieldErrors(t *testing.T) {
	sender, recipient, amount, invalidEscrow := escrowErrors()
	// Accept and cancel nest the escrow key under Target.
	target := Field("Target", Append(sender, recipient), "")
	schema := Field("Metadata", Field("Schema", ErrInput, "unsupported"), "")
	acceptMsg := Append(schema, target)
	senderTwice := Append(sender, Field("Sender", ErrInput, "not a public key"))

	cases := map[string]struct {
		err   error
		field string
		want  []error
	}{
		"single field": {
			err:   amount,
			field: "Amount",
			want:  []error{amount},
		},
		"field among all escrow errors": {
			err:   invalidEscrow,
			field: "Recipient",
			want:  []error{recipient},
		},
		"field reported twice": {
			err:   senderTwice,
			field: "Sender",
			want:  []error{sender, senderTwice.(multiError)[1]},
		},
		"outer field holds the nested ones": {
			err:   acceptMsg,
			field: "Target",
			want:  []error{target},
		},
		"nested field is found below the outer": {
			err:   acceptMsg,
			field: "Sender",
			want:  []error{sender},
		},
		"nested metadata field": {
			err:   acceptMsg,
			field: "Schema",
			want:  []error{schema.(*fieldError).parent},
		},
		"wrapped by the handler": {
			err:   Wrap(Wrap(invalidEscrow, "invalid escrow"), "open"),
			field: "Amount",
			want:  []error{amount},
		},
		"wrapped nested field": {
			err:   Wrap(acceptMsg, "load msg"),
			field: "Recipient",
			want:  []error{recipient},
		},
		"field not present": {
			err:   invalidEscrow,
			field: "EscrowID",
		},
		"plain error has no fields": {
			err:   ErrNotFound,
			field: "Sender",
		},
		"nil error": {
			field: "Sender",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := FieldErrors(tc.err, tc.field)
			if !reflect.DeepEqual(tc.want, got) {
				t.Logf("want: %#v", tc.want)
				t.Logf(" got: %#v", got)
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestFieldKeepsRootError(t *testing.T) {
	sender, _, amount, all := escrowErrors()

	if !ErrEmpty.Is(sender) {
		t.Fatalf("sender error lost its root: %v", sender)
	}
	if got, want := amount.Error(), `field "Amount": must be positive: invalid amount`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if got, want := sender.Error(), `field "Sender": value is empty`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	// The first error decides the ABCI code of a group.
	if code, _ := ABCIInfo(all, false); code != ErrEmpty.ABCICode() {
		t.Fatalf("want code %d, got %d", ErrEmpty.ABCICode(), code)
	}
	if Field("Amount", nil, "ok") != nil {
		t.Fatal("nil error must stay nil")
	}
	if AppendField(nil, "Amount", nil) != nil {
		t.Fatal("no field error must give nil")
	}
}
