// Package stream 实现字节流适配器
//
// # 概述
//
// stream 将具体传输连接（net.Conn）的读/写/关闭语义规范化为
// 统一的流契约（pkg/interfaces.Stream），并把传输层的各种故障
// 折叠为四种语义错误：
//
//   - ErrEOF：流已结束 / 已关闭
//   - ErrIncomplete：请求的字节到齐前连接被关闭
//   - ErrReadLimit：读取超出大小上界
//   - ErrStream：其余流错误
//
// 上层因此永远不依赖传输特定的故障类型。
//
// # 关闭语义
//
// Close 幂等；首次关闭触发一次性关闭通知（CloseNotify 通道），
// 并使所有挂起及后续的读写迅速以分类错误失败。
// 关闭底层流是本层表达取消的唯一方式，没有独立的取消令牌。
package stream
