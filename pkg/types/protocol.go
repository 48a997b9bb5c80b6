// Package types 定义跨模块共享的基础类型
package types

// ProtocolID 协议标识
//
// 例如："/noise/1.0.0"。
type ProtocolID string

// String 返回协议标识字符串形式
func (p ProtocolID) String() string {
	return string(p)
}
