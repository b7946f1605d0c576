package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("request", "r1")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("USER", "no access")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad %s", "input")))
	assert.Equal(t, KindInvalidTransition, KindOf(InvalidTransition("r1", "NEW", "REPAIRED")))
	assert.Equal(t, KindConflict, KindOf(Conflict("request", "r1", errors.New("version"))))
	assert.Equal(t, KindCascadeFailed, KindOf(&CascadeError{RequestID: "r1", Err: errors.New("boom")}))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading request: %w", NotFound("request", "r1"))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindForbidden))
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := InvalidTransition("r1", "REPAIRED", "NEW")
	assert.Equal(t, "request r1 cannot move from REPAIRED to NEW", err.Error())
	assert.Equal(t, "REPAIRED", err.From)
	assert.Equal(t, "NEW", err.To)
}

func TestCascadeErrorUnwrap(t *testing.T) {
	cause := errors.New("transaction canceled")
	err := &CascadeError{RequestID: "r1", EquipmentID: "e1", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "request applied: false")
}
