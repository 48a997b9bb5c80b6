// Package stream 实现字节流适配器
package stream

import "errors"

var (
	// ErrEOF 流已结束或已关闭
	ErrEOF = errors.New("stream: end of stream")

	// ErrIncomplete 请求的字节到齐前连接被关闭
	ErrIncomplete = errors.New("stream: connection closed mid-read")

	// ErrReadLimit 读取超出大小上界
	ErrReadLimit = errors.New("stream: read size limit exceeded")

	// ErrStream 其余流错误
	ErrStream = errors.New("stream: stream error")
)
