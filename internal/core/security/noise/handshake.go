// Package noise 实现基于 Noise 协议的安全通道变体
package noise

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/flynn/noise"
	"github.com/multiformats/go-varint"

	"github.com/dep2p/go-secure/pkg/interfaces"
	"github.com/dep2p/go-secure/pkg/lib/crypto"
)

// payloadSigPrefix 身份载荷签名的前缀
const payloadSigPrefix = "dep2p-secure-static-key:"

// noiseStaticKeySize Noise 静态公钥大小（Curve25519）
const noiseStaticKeySize = 32

// ============================================================================
//                              握手驱动
// ============================================================================

// performHandshake 执行 Noise XX 握手
//
// 每次握手生成新的 Noise 静态密钥对，并用身份私钥签名绑定；
// 引擎句柄在本次握手任务内创建和释放（执行上下文本地）。
func performHandshake(raw interfaces.Stream, identity *crypto.PrivateKey, initiator bool) (*secureConn, error) {
	cctx := crypto.NewContext()
	defer cctx.Close()

	cs := noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashSHA256)
	static, err := cs.GenerateKeypair(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate static keypair: %w", err)
	}

	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   cs,
		Pattern:       noise.HandshakeXX,
		Initiator:     initiator,
		StaticKeypair: static,
	})
	if err != nil {
		return nil, fmt.Errorf("create handshake state: %w", err)
	}

	localPayload, err := signIdentityPayload(cctx, identity, static.Public)
	if err != nil {
		return nil, fmt.Errorf("sign identity payload: %w", err)
	}

	var sendCS, recvCS *noise.CipherState
	var remotePayload []byte
	if initiator {
		sendCS, recvCS, remotePayload, err = initiatorHandshake(raw, hs, localPayload)
	} else {
		sendCS, recvCS, remotePayload, err = responderHandshake(raw, hs, localPayload)
	}
	if err != nil {
		return nil, fmt.Errorf("handshake: %w", err)
	}

	remoteStatic := hs.PeerStatic()
	if len(remoteStatic) != noiseStaticKeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidStaticKey, len(remoteStatic))
	}

	remoteKey, err := verifyIdentityPayload(cctx, remotePayload, remoteStatic)
	if err != nil {
		return nil, err
	}

	return newSecureConn(raw, sendCS, recvCS, identity.PublicKey(), remoteKey), nil
}

// initiatorHandshake 发起方握手
//
//	1. -> e
//	2. <- e, ee, s, es, payload
//	3. -> s, se, payload（最后一轮，产出 CipherState）
func initiatorHandshake(raw interfaces.Stream, hs *noise.HandshakeState, localPayload []byte) (*noise.CipherState, *noise.CipherState, []byte, error) {
	msg1, _, _, err := hs.WriteMessage(nil, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("write message 1: %w", err)
	}
	if err := writeFrame(raw, msg1); err != nil {
		return nil, nil, nil, fmt.Errorf("send message 1: %w", err)
	}

	msg2, err := readFrame(raw)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("receive message 2: %w", err)
	}
	remotePayload, _, _, err := hs.ReadMessage(nil, msg2)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read message 2: %w", err)
	}

	msg3, cs1, cs2, err := hs.WriteMessage(nil, localPayload)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("write message 3: %w", err)
	}
	if err := writeFrame(raw, msg3); err != nil {
		return nil, nil, nil, fmt.Errorf("send message 3: %w", err)
	}

	// 发起方：cs1 = 发送密钥，cs2 = 接收密钥
	return cs1, cs2, remotePayload, nil
}

// responderHandshake 响应方握手
//
//	1. <- e
//	2. -> e, ee, s, es, payload
//	3. <- s, se, payload（最后一轮，产出 CipherState）
func responderHandshake(raw interfaces.Stream, hs *noise.HandshakeState, localPayload []byte) (*noise.CipherState, *noise.CipherState, []byte, error) {
	msg1, err := readFrame(raw)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("receive message 1: %w", err)
	}
	if _, _, _, err := hs.ReadMessage(nil, msg1); err != nil {
		return nil, nil, nil, fmt.Errorf("read message 1: %w", err)
	}

	msg2, _, _, err := hs.WriteMessage(nil, localPayload)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("write message 2: %w", err)
	}
	if err := writeFrame(raw, msg2); err != nil {
		return nil, nil, nil, fmt.Errorf("send message 2: %w", err)
	}

	msg3, err := readFrame(raw)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("receive message 3: %w", err)
	}
	remotePayload, cs1, cs2, err := hs.ReadMessage(nil, msg3)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read message 3: %w", err)
	}

	// 响应方与发起方相反：cs2 = 发送密钥，cs1 = 接收密钥
	return cs2, cs1, remotePayload, nil
}

// ============================================================================
//                              身份载荷
// ============================================================================

// signIdentityPayload 构造并签名身份载荷
//
// 布局：uvarint(len) ‖ 压缩身份公钥 ‖ uvarint(len) ‖ 可恢复签名。
// 签名覆盖 payloadSigPrefix + 本端 Noise 静态公钥。
func signIdentityPayload(cctx *crypto.Context, identity *crypto.PrivateKey, noiseStatic []byte) ([]byte, error) {
	idBytes := identity.PublicKey().Serialize()

	sig, err := cctx.Sign(identity, signedMaterial(noiseStatic))
	if err != nil {
		return nil, err
	}
	sigBytes := sig.Serialize()

	payload := make([]byte, 0,
		varint.UvarintSize(uint64(len(idBytes)))+len(idBytes)+
			varint.UvarintSize(uint64(len(sigBytes)))+len(sigBytes))
	payload = appendUvarintChunk(payload, idBytes)
	payload = appendUvarintChunk(payload, sigBytes)
	return payload, nil
}

// verifyIdentityPayload 验证对端身份载荷
//
// 解析身份公钥与签名，校验签名覆盖对端的 Noise 静态公钥；
// 通过后返回已验证的身份公钥。
func verifyIdentityPayload(cctx *crypto.Context, payload, remoteStatic []byte) (*crypto.PublicKey, error) {
	keyBytes, rest, err := readUvarintChunk(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: identity key: %v", ErrInvalidPayload, err)
	}
	sigBytes, rest, err := readUvarintChunk(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", ErrInvalidPayload, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidPayload, len(rest))
	}

	pub, err := crypto.ParsePublicKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	sig, err := crypto.ParseSignature(sigBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	ok, err := cctx.Verify(sig, signedMaterial(remoteStatic), pub)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPayloadSignature
	}

	return pub, nil
}

// signedMaterial 构造签名覆盖的字节串
func signedMaterial(noiseStatic []byte) []byte {
	material := make([]byte, 0, len(payloadSigPrefix)+len(noiseStatic))
	material = append(material, payloadSigPrefix...)
	return append(material, noiseStatic...)
}

// appendUvarintChunk 追加一个带 uvarint 长度前缀的分块
func appendUvarintChunk(dst, chunk []byte) []byte {
	buf := make([]byte, varint.UvarintSize(uint64(len(chunk))))
	n := varint.PutUvarint(buf, uint64(len(chunk)))
	dst = append(dst, buf[:n]...)
	return append(dst, chunk...)
}

// readUvarintChunk 读取一个带 uvarint 长度前缀的分块
func readUvarintChunk(b []byte) (chunk, rest []byte, err error) {
	size, n, err := varint.FromUvarint(b)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(b)-n) < size {
		return nil, nil, fmt.Errorf("chunk truncated: want %d bytes, have %d", size, len(b)-n)
	}
	end := n + int(size)
	return b[n:end], b[end:], nil
}

// ============================================================================
//                              帧读写
// ============================================================================

// writeFrame 写出一个 2 字节大端长度前缀的帧
func writeFrame(raw interfaces.Stream, msg []byte) error {
	if len(msg) > maxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(msg))
	}

	frame := make([]byte, frameHeaderSize+len(msg))
	binary.BigEndian.PutUint16(frame, uint16(len(msg)))
	copy(frame[frameHeaderSize:], msg)

	_, err := raw.Write(frame)
	return err
}

// readFrame 读取一个 2 字节大端长度前缀的帧
func readFrame(raw interfaces.Stream) ([]byte, error) {
	header := make([]byte, frameHeaderSize)
	if err := raw.ReadFull(header); err != nil {
		return nil, err
	}

	msg := make([]byte, binary.BigEndian.Uint16(header))
	if err := raw.ReadFull(msg); err != nil {
		return nil, err
	}
	return msg, nil
}
