package access

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	require.Equal(t, "addr1", Address("addr1").String())
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	addr, err := v.Validate("addr1")
	require.NoError(t, err)
	require.Equal(t, Address("addr1"), addr)

	_, err = v.Validate("ab")
	require.ErrorIs(t, err, ErrAddressFormat)
	require.EqualError(t, err, "'ab' is too short: invalid address")

	_, err = v.Validate(strings.Repeat("a", MaxAddressLength+1))
	require.ErrorIs(t, err, ErrAddressFormat)

	_, err = v.Validate("addr-1")
	require.EqualError(t, err, "'addr-1' is not alphanumeric: invalid address")

	_, err = v.Validate("Addr1")
	require.EqualError(t, err, "'Addr1' is not normalized: invalid address")
}
