package noise

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-secure/internal/core/stream"
	"github.com/dep2p/go-secure/pkg/interfaces"
	"github.com/dep2p/go-secure/pkg/lib/crypto"
)

func testKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()
	cctx := crypto.NewContext()
	defer cctx.Close()

	key, err := cctx.GeneratePrivateKey()
	require.NoError(t, err)
	return key
}

func pipeStreams(t *testing.T) (interfaces.Stream, interfaces.Stream) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return stream.New(a), stream.New(b)
}

// handshakePair 在内存管道上完成一次完整的 XX 握手
func handshakePair(t *testing.T) (interfaces.SecureConn, interfaces.SecureConn, *crypto.PrivateKey, *crypto.PrivateKey) {
	t.Helper()

	initKey := testKey(t)
	respKey := testKey(t)

	initCh, err := New(initKey)
	require.NoError(t, err)
	respCh, err := New(respKey)
	require.NoError(t, err)

	rawInit, rawResp := pipeStreams(t)

	type result struct {
		sc  interfaces.SecureConn
		err error
	}
	respDone := make(chan result, 1)
	go func() {
		sc, err := respCh.Secure(context.Background(), rawResp, false)
		respDone <- result{sc: sc, err: err}
	}()

	initConn, err := initCh.Secure(context.Background(), rawInit, true)
	require.NoError(t, err)

	var respConn interfaces.SecureConn
	select {
	case res := <-respDone:
		require.NoError(t, res.err)
		respConn = res.sc
	case <-time.After(2 * time.Second):
		t.Fatal("responder handshake did not finish")
	}

	return initConn, respConn, initKey, respKey
}

func TestNew_NilIdentity(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilIdentity)
}

func TestChannel_ID(t *testing.T) {
	ch, err := New(testKey(t))
	require.NoError(t, err)
	assert.Equal(t, ProtocolID, ch.ID())
}

func TestHandshake_EndToEnd(t *testing.T) {
	initConn, respConn, initKey, respKey := handshakePair(t)

	// 双方拿到的远端公钥是握手中验证过的身份公钥
	assert.True(t, initConn.RemotePublicKey().Equals(respKey.PublicKey()))
	assert.True(t, respConn.RemotePublicKey().Equals(initKey.PublicKey()))
	assert.True(t, initConn.LocalPublicKey().Equals(initKey.PublicKey()))
	assert.True(t, respConn.LocalPublicKey().Equals(respKey.PublicKey()))

	// 双向消息往返
	done := make(chan error, 1)
	go func() {
		done <- respConn.WriteMessage([]byte("from responder"))
	}()

	msg := []byte("from initiator")
	writeDone := make(chan error, 1)
	go func() {
		writeDone <- initConn.WriteMessage(msg)
	}()

	got, err := respConn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, msg, got)
	require.NoError(t, <-writeDone)

	got, err = initConn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("from responder"), got)
	require.NoError(t, <-done)
}

func TestConn_BufferedRead(t *testing.T) {
	initConn, respConn, _, _ := handshakePair(t)

	msg := []byte("one encrypted message, many small reads")
	writeDone := make(chan error, 1)
	go func() {
		writeDone <- initConn.WriteMessage(msg)
	}()

	var got []byte
	buf := make([]byte, 5)
	for len(got) < len(msg) {
		n, err := respConn.Read(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, msg, got)
	require.NoError(t, <-writeDone)
}

func TestConn_LargeWrite(t *testing.T) {
	initConn, respConn, _, _ := handshakePair(t)

	// 超出单帧明文上限的载荷被切分为多条消息透明传输
	payload := make([]byte, maxPlaintextSize*2+1024)
	_, err := rand.Read(payload)
	require.NoError(t, err)

	writeDone := make(chan error, 1)
	go func() {
		n, err := initConn.Write(payload)
		if err == nil && n != len(payload) {
			err = io.ErrShortWrite
		}
		writeDone <- err
	}()

	got := make([]byte, len(payload))
	require.NoError(t, respConn.ReadFull(got))
	require.NoError(t, <-writeDone)
	assert.True(t, bytes.Equal(payload, got))
}

func TestWriteMessage_TooLarge(t *testing.T) {
	initConn, _, _, _ := handshakePair(t)

	err := initConn.WriteMessage(make([]byte, maxPlaintextSize+1))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestHandshake_PeerGone(t *testing.T) {
	ch, err := New(testKey(t))
	require.NoError(t, err)

	rawInit, rawResp := pipeStreams(t)
	rawResp.Close()

	_, err = ch.Secure(context.Background(), rawInit, true)
	assert.Error(t, err)
}

// ============================================================================
//                              身份载荷
// ============================================================================

func TestIdentityPayload_RoundTrip(t *testing.T) {
	cctx := crypto.NewContext()
	defer cctx.Close()

	key := testKey(t)
	static := make([]byte, noiseStaticKeySize)
	_, err := rand.Read(static)
	require.NoError(t, err)

	payload, err := signIdentityPayload(cctx, key, static)
	require.NoError(t, err)

	pub, err := verifyIdentityPayload(cctx, payload, static)
	require.NoError(t, err)
	assert.True(t, pub.Equals(key.PublicKey()))
}

func TestIdentityPayload_WrongStatic(t *testing.T) {
	cctx := crypto.NewContext()
	defer cctx.Close()

	key := testKey(t)
	static := make([]byte, noiseStaticKeySize)
	_, err := rand.Read(static)
	require.NoError(t, err)

	payload, err := signIdentityPayload(cctx, key, static)
	require.NoError(t, err)

	// 签名绑定的是另一把静态密钥：载荷对这把密钥无效
	other := make([]byte, noiseStaticKeySize)
	_, err = rand.Read(other)
	require.NoError(t, err)

	_, err = verifyIdentityPayload(cctx, payload, other)
	assert.ErrorIs(t, err, ErrPayloadSignature)
}

func TestIdentityPayload_Malformed(t *testing.T) {
	cctx := crypto.NewContext()
	defer cctx.Close()

	key := testKey(t)
	static := make([]byte, noiseStaticKeySize)
	_, err := rand.Read(static)
	require.NoError(t, err)

	payload, err := signIdentityPayload(cctx, key, static)
	require.NoError(t, err)

	cases := map[string][]byte{
		"empty":     {},
		"truncated": payload[:len(payload)-10],
		"trailing":  append(append([]byte{}, payload...), 0xFF),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := verifyIdentityPayload(cctx, data, static)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}
