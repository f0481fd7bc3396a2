package apperr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	nf := NotFoundf("%s not found", "Video")
	assert.Equal(t, NotFound, KindOf(nf))
	assert.Equal(t, "Video not found", Message(nf))

	wrapped := errors.Wrap(nf, "load video")
	assert.Equal(t, NotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, NotFound))
	assert.Equal(t, "Video not found", Message(wrapped))

	plain := errors.New("connection refused")
	assert.Equal(t, Backend, KindOf(plain))
	assert.Equal(t, "connection refused", Message(plain))
	assert.False(t, Is(nil, Backend))
}

func TestWrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Wrap(cause, "failed to delete video")

	assert.Equal(t, Backend, KindOf(err))
	assert.Equal(t, "failed to delete video: timeout", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestInvalidField(t *testing.T) {
	err := InvalidField("category", "Category does not exist")

	assert.Equal(t, Invalid, KindOf(err))
	assert.Equal(t, map[string][]string{"category": {"Category does not exist"}}, FieldsOf(err))
	assert.Nil(t, FieldsOf(errors.New("x")))
}
