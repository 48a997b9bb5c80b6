// Package noise 实现基于 Noise 协议的安全通道变体
//
// # 概述
//
// noise 是 pkg/interfaces.SecureChannel 的一个具体变体：
// 在原始流上执行 Noise XX 握手（25519/ChaChaPoly/SHA256），
// 并用 secp256k1 可恢复签名把每次握手新生成的 Noise 静态密钥
// 绑定到节点的身份公钥上。
//
// # 握手流程
//
// Noise XX 提供相互认证和前向保密：
//
//	-> e                          (发起方发送临时公钥)
//	<- e, ee, s, es, payload      (响应方发送静态公钥与身份载荷)
//	-> s, se, payload             (发起方发送静态公钥与身份载荷)
//
// 身份载荷按 uvarint 长度分块：
//
//	uvarint(len) ‖ 压缩身份公钥 ‖ uvarint(len) ‖ 可恢复签名
//
// 签名覆盖 "dep2p-secure-static-key:" + 本端 Noise 静态公钥。
// 验证失败即握手失败，双方各自提取对端已验证的身份公钥。
//
// # 传输格式
//
// 握手消息与加密消息均使用 2 字节大端长度前缀分帧，
// 单帧密文不超过 65535 字节。
package noise
