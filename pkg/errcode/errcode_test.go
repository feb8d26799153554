package errcode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("follow 3: %w", MemberNotFound)
	assert.ErrorIs(t, wrapped, MemberNotFound)
	assert.NotErrorIs(t, wrapped, MemberExists)

	custom := MemberNotFound.WithMessage("following member 3 not found")
	assert.ErrorIs(t, custom, MemberNotFound)
	assert.Equal(t, http.StatusNotFound, custom.Status)
}

func TestFrom(t *testing.T) {
	e, ok := From(fmt.Errorf("ctx: %w", MemberNotAuthorized))
	assert.True(t, ok)
	assert.Equal(t, "MEMBER_NOT_AUTHORIZED", e.Code)

	_, ok = From(errors.New("boom"))
	assert.False(t, ok)
}
