package api_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/hioload-connscale/api"
)

func TestError_UnwrapsToSentinel(t *testing.T) {
	inv := api.NewError(api.ErrCodeInvalidArgument, "bad port").WithContext("port", 0)
	assert.ErrorIs(t, inv, api.ErrInvalidArgument)
	assert.NotErrorIs(t, inv, api.ErrNotSupported)
	assert.Contains(t, inv.Error(), "bad port")
	assert.Contains(t, inv.Error(), "port")

	ns := api.NewError(api.ErrCodeNotSupported, "no rlimit")
	assert.ErrorIs(t, ns, api.ErrNotSupported)
	assert.Equal(t, "no rlimit", ns.Error())

	var target *api.Error
	assert.True(t, errors.As(error(ns), &target))
	assert.Equal(t, api.ErrCodeNotSupported, target.Code)
}

func TestFailureKind_String(t *testing.T) {
	assert.Len(t, api.FailureKinds, api.NumFailureKinds-1)
	assert.Equal(t, "bind_exhaustion", api.FailureBindExhaustion.String())
	assert.Equal(t, "aborted", api.FailureAborted.String())
	assert.Equal(t, "unknown", api.FailureKind(99).String())
}
