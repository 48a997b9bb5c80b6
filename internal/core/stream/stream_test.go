package stream

import (
	"bytes"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn 可注入行为的传输连接
//
// 只实现测试用到的行为：按上限截断写入、统计调用次数。
type fakeConn struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	writeCap   int // 单次写入上限（0 = 不限）
	writeCalls int
	closeCalls int
}

func (c *fakeConn) Read(p []byte) (int, error) {
	return 0, io.EOF
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeCalls++
	n := len(p)
	if c.writeCap > 0 && n > c.writeCap {
		n = c.writeCap
	}
	c.buf.Write(p[:n])
	return n, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCalls++
	return nil
}

func (c *fakeConn) LocalAddr() net.Addr              { return nil }
func (c *fakeConn) RemoteAddr() net.Addr             { return nil }
func (c *fakeConn) SetDeadline(time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func pipeAdapters(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return New(a), b
}

// ============================================================================
//                              读取
// ============================================================================

func TestReadFull(t *testing.T) {
	s, peer := pipeAdapters(t)

	go func() {
		peer.Write([]byte{1, 2})
		peer.Write([]byte{3, 4})
	}()

	buf := make([]byte, 4)
	require.NoError(t, s.ReadFull(buf))
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
}

func TestRead_Short(t *testing.T) {
	s, peer := pipeAdapters(t)

	go peer.Write([]byte("abc"))

	buf := make([]byte, 10)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte("abc"), buf[:n])
}

func TestRead_AfterLocalClose(t *testing.T) {
	s, _ := pipeAdapters(t)
	require.NoError(t, s.Close())

	// 已关闭的流立即失败，不做任何等待
	done := make(chan error, 1)
	go func() {
		_, err := s.Read(make([]byte, 1))
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrEOF)
	case <-time.After(time.Second):
		t.Fatal("read on closed stream blocked")
	}

	assert.ErrorIs(t, s.ReadFull(make([]byte, 1)), ErrEOF)
}

func TestRead_EOFAfterRemoteClose(t *testing.T) {
	s, peer := pipeAdapters(t)
	peer.Close()

	_, err := s.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrEOF)
}

func TestReadFull_Incomplete(t *testing.T) {
	s, peer := pipeAdapters(t)

	go func() {
		peer.Write([]byte{1, 2})
		peer.Close()
	}()

	err := s.ReadFull(make([]byte, 4))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestRead_Limit(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	s := New(a, WithReadLimit(4))

	assert.ErrorIs(t, s.ReadFull(make([]byte, 5)), ErrReadLimit)

	_, err := s.Read(make([]byte, 5))
	assert.ErrorIs(t, err, ErrReadLimit)
}

// ============================================================================
//                              写入
// ============================================================================

func TestWrite_Empty(t *testing.T) {
	conn := &fakeConn{}
	s := New(conn)

	n, err := s.Write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, conn.writeCalls)
}

func TestWrite_PartialFlush(t *testing.T) {
	// 底层每次最多消费 3 字节：必须多次部分写直到全部刷出
	conn := &fakeConn{writeCap: 3}
	s := New(conn)

	payload := []byte("partial write flushing")
	n, err := s.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, conn.buf.Bytes())
	assert.Greater(t, conn.writeCalls, 1)
}

func TestWrite_AfterClose(t *testing.T) {
	s, _ := pipeAdapters(t)
	require.NoError(t, s.Close())

	_, err := s.Write([]byte("rejected"))
	assert.ErrorIs(t, err, ErrStream)
}

// ============================================================================
//                              关闭
// ============================================================================

func TestClose_Idempotent(t *testing.T) {
	conn := &fakeConn{}
	s := New(conn)

	assert.False(t, s.IsClosed())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, s.IsClosed())
	assert.Equal(t, 1, conn.closeCalls)
}

func TestCloseNotify_SingleFire(t *testing.T) {
	s, _ := pipeAdapters(t)

	// 多个观察者注册同一个一次性通知
	first := s.CloseNotify()
	second := s.CloseNotify()

	select {
	case <-first:
		t.Fatal("close notify fired before close")
	default:
	}

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	for _, ch := range []<-chan struct{}{first, second} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("close notify did not fire")
		}
	}
}

func TestClose_UnblocksPendingRead(t *testing.T) {
	s, _ := pipeAdapters(t)

	done := make(chan error, 1)
	go func() {
		done <- s.ReadFull(make([]byte, 4))
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Close())

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("pending read not unblocked by close")
	}
}
