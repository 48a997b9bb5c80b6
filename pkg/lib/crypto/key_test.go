package crypto

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGenerateKey(t *testing.T) *PrivateKey {
	t.Helper()
	cctx := NewContext()
	defer cctx.Close()

	priv, err := cctx.GeneratePrivateKey()
	require.NoError(t, err)
	return priv
}

func TestParsePrivateKey_RoundTrip(t *testing.T) {
	priv := mustGenerateKey(t)

	raw := priv.Serialize()
	require.Len(t, raw, PrivateKeySize)

	parsed, err := ParsePrivateKey(raw)
	require.NoError(t, err)
	assert.True(t, parsed.Equals(priv))
	assert.Equal(t, raw, parsed.Serialize())
}

func TestParsePrivateKey_TooShort(t *testing.T) {
	_, err := ParsePrivateKey(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)
}

func TestParsePrivateKey_OutOfRange(t *testing.T) {
	// 全零：标量为 0
	_, err := ParsePrivateKey(make([]byte, PrivateKeySize))
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	// 全 0xFF：超出曲线阶
	over := bytes.Repeat([]byte{0xFF}, PrivateKeySize)
	_, err = ParsePrivateKey(over)
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)
}

func TestParsePrivateKeyHex(t *testing.T) {
	priv := mustGenerateKey(t)
	hexText := priv.Hex()

	// 小写
	parsed, err := ParsePrivateKeyHex(hexText)
	require.NoError(t, err)
	assert.True(t, parsed.Equals(priv))

	// 大写 + 内嵌空白
	upper := "  " + strings.ToUpper(hexText[:10]) + " \t" + hexText[10:] + "\n"
	parsed, err = ParsePrivateKeyHex(upper)
	require.NoError(t, err)
	assert.True(t, parsed.Equals(priv))

	// 非法字符
	_, err = ParsePrivateKeyHex("zz" + hexText[2:])
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)
}

func TestParsePublicKey_RoundTrip(t *testing.T) {
	pub := mustGenerateKey(t).PublicKey()

	raw := pub.Serialize()
	require.Len(t, raw, PublicKeySize)
	assert.Contains(t, []byte{0x02, 0x03}, raw[0])

	parsed, err := ParsePublicKey(raw)
	require.NoError(t, err)
	assert.True(t, parsed.Equals(pub))
	assert.Equal(t, raw, parsed.Serialize())
}

func TestParsePublicKey_BadTag(t *testing.T) {
	buf := make([]byte, PublicKeySize)
	buf[0] = 0x05
	_, err := ParsePublicKey(buf)
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = ParsePublicKey(nil)
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)
}

func TestParsePublicKey_LengthMismatch(t *testing.T) {
	pub := mustGenerateKey(t).PublicKey()

	// 压缩前缀配 65 字节长度
	long := make([]byte, UncompressedPublicKeySize)
	copy(long, pub.Serialize())
	_, err := ParsePublicKey(long)
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	// 未压缩前缀配 33 字节长度
	short := make([]byte, PublicKeySize)
	copy(short, pub.SerializeUncompressed())
	_, err = ParsePublicKey(short)
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)
}

func TestPublicKey_CanonicalEquality(t *testing.T) {
	pub := mustGenerateKey(t).PublicKey()

	// 同一个点的压缩与未压缩编码
	fromCompressed, err := ParsePublicKey(pub.Serialize())
	require.NoError(t, err)
	fromUncompressed, err := ParsePublicKey(pub.SerializeUncompressed())
	require.NoError(t, err)

	assert.True(t, fromCompressed.Equals(fromUncompressed))
	assert.Equal(t, fromCompressed.Serialize(), fromUncompressed.Serialize())
}

func TestDerivePublicKey_Deterministic(t *testing.T) {
	priv := mustGenerateKey(t)

	first := priv.PublicKey().Serialize()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, priv.PublicKey().Serialize())
	}
}

func TestPrivateKey_Zero(t *testing.T) {
	priv := mustGenerateKey(t)
	priv.Zero()
	assert.Equal(t, make([]byte, PrivateKeySize), priv.Serialize())
}

func TestPublicKey_Zero(t *testing.T) {
	priv := mustGenerateKey(t)
	pub := priv.PublicKey()
	original := priv.PublicKey()

	pub.Zero()
	assert.False(t, pub.Equals(original))
	assert.NotEqual(t, original.Serialize(), pub.Serialize())
}
