package utils

import (
	"context"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestActionTagger(t *testing.T) {
	db := store.MemStore()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "escrow/open"}}

	res, err := NewActionTagger().Deliver(context.Background(), db, tx, &custodytest.Handler{})
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res.Tags))
	assert.Equal(t, []byte(ActionKey), res.Tags[0].Key)
	assert.Equal(t, []byte("escrow/open"), res.Tags[0].Value)

	// failure has no tags
	_, err = NewActionTagger().Deliver(context.Background(), db, tx, &custodytest.Handler{DeliverErr: errors.ErrNotFound})
	assert.IsErr(t, errors.ErrNotFound, err)

	// broken transaction is rejected before the handler is called
	h := &custodytest.Handler{}
	_, err = NewActionTagger().Deliver(context.Background(), db, &custodytest.Tx{Err: errors.ErrMsg}, h)
	assert.IsErr(t, errors.ErrMsg, err)
	assert.Equal(t, 0, h.CallCount())
}
