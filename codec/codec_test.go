package codec_test

import (
	"testing"

	"github.com/librespace/gsat-codec/codec"
	"github.com/stretchr/testify/require"
)

func TestNewIdentityAssignsDistinctIDs(t *testing.T) {
	a := codec.NewIdentity("ax25", "1.0.0")
	b := codec.NewIdentity("ax25", "1.0.0")
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, "ax25", a.Name)
	require.Equal(t, "1.0.0", a.Version)
}
