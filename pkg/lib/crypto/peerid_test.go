package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-secure/pkg/types"
)

func TestPeerIDFromPublicKey(t *testing.T) {
	priv := mustGenerateKey(t)

	id1, err := PeerIDFromPublicKey(priv.PublicKey())
	require.NoError(t, err)
	assert.False(t, id1.Empty())

	// 派生是确定性的
	id2, err := PeerIDFromPublicKey(priv.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	// 与私钥派生一致
	id3, err := PeerIDFromPrivateKey(priv)
	require.NoError(t, err)
	assert.Equal(t, id1, id3)
}

func TestPeerIDFromPublicKey_Nil(t *testing.T) {
	_, err := PeerIDFromPublicKey(nil)
	assert.ErrorIs(t, err, ErrNilPublicKey)

	_, err = PeerIDFromPrivateKey(nil)
	assert.ErrorIs(t, err, ErrNilPrivateKey)
}

func TestVerifyPeerID(t *testing.T) {
	priv := mustGenerateKey(t)
	other := mustGenerateKey(t)

	id, err := PeerIDFromPublicKey(priv.PublicKey())
	require.NoError(t, err)

	ok, err := VerifyPeerID(priv.PublicKey(), id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPeerID(other.PublicKey(), id)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = VerifyPeerID(priv.PublicKey(), types.EmptyPeerID)
	require.NoError(t, err)
	assert.False(t, ok)
}
