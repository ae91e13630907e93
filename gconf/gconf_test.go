package gconf

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/codec"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

type myConfig struct {
	Number uint64 `protobuf:"varint,1,opt,name=number,proto3" json:"number"`
	Text   string `protobuf:"bytes,2,opt,name=text,proto3" json:"text"`
}

func (c *myConfig) Validate() error {
	if c.Text == "" {
		return errors.Field("Text", errors.ErrEmpty, "required")
	}
	return nil
}

func (c *myConfig) Marshal() ([]byte, error) {
	return codec.Marshal((*myConfigMsg)(c))
}

func (c *myConfig) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*myConfigMsg)(c))
}

type myConfigMsg myConfig

func (m *myConfigMsg) Reset()         { *m = myConfigMsg{} }
func (m *myConfigMsg) String() string { return proto.CompactTextString(m) }
func (*myConfigMsg) ProtoMessage()    {}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	err := Save(db, "mine", &myConfig{Number: 3})
	assert.FieldError(t, err, "Text", errors.ErrEmpty)

	var got myConfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "mine", &got))

	want := myConfig{Number: 3, Text: "three"}
	assert.Nil(t, Save(db, "mine", &want))
	assert.Nil(t, Load(db, "mine", &got))
	assert.Equal(t, want, got)

	assert.IsErr(t, errors.ErrNotFound, Load(db, "other", &got))
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    myConfig
	}{
		"configuration loaded": {
			genesis: `{"gconf": {"mine": {"number": 7, "text": "seven"}}}`,
			want:    myConfig{Number: 7, Text: "seven"},
		},
		"missing gconf section": {
			genesis: `{}`,
			wantErr: errors.ErrNotFound,
		},
		"missing package": {
			genesis: `{"gconf": {"other": {"text": "x"}}}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			genesis: `{"gconf": {"mine": {"number": 7}}}`,
			wantErr: errors.ErrEmpty,
		},
		"malformed json": {
			genesis: `{"gconf": {"mine": {"number": "seven"}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts custody.Options
			if err := json.Unmarshal([]byte(tc.genesis), &opts); err != nil {
				t.Fatalf("cannot unmarshal genesis: %s", err)
			}
			db := store.MemStore()
			var conf myConfig
			err := InitConfig(db, opts, "mine", &conf)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			var got myConfig
			assert.Nil(t, Load(db, "mine", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuery(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, Save(db, "mine", &myConfig{Text: "hello"}))

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/gconf")

	res, err := h.Query(db, "", []byte("mine"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	if !strings.Contains(string(res[0].Value), "hello") {
		t.Fatalf("unexpected value: %x", res[0].Value)
	}

	res, err = h.Query(db, "", []byte("missing"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	_, err = h.Query(db, "prefix", nil)
	assert.IsErr(t, errors.ErrInput, err)
}
