package escrow

import (
	"fmt"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	valid := fmt.Sprintf(`{"escrow": {"owner": %q, "record_deposit": 5}}`, testOwner.String())

	cases := map[string]struct {
		opts    custody.Options
		wantErr *errors.Error
	}{
		"configuration is required": {
			opts:    custody.Options{},
			wantErr: errors.ErrNotFound,
		},
		"owner is required": {
			opts:    custody.Options{"gconf": []byte(`{"escrow": {"record_deposit": 5}}`)},
			wantErr: errors.ErrEmpty,
		},
		"valid configuration": {
			opts: custody.Options{"gconf": []byte(valid)},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			err := Initializer{}.FromGenesis(tc.opts, db)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			conf, err := loadConf(db)
			require.NoError(t, err)
			assert.Equal(t, testOwner, conf.Owner)
			assert.Equal(t, uint64(5), conf.RecordDeposit)
		})
	}
}
