// 内存中的帧缓存，同一次发布的同一尺寸只绘制一次
package memimg

import (
	"fmt"
	"sync"
)

// Frames 缓存最近一次发布的快照编码后的 PNG。发布序号变化时整个缓存被替换
type Frames struct {
	mu     sync.RWMutex
	seq    uint64
	frames map[string][]byte
}

func NewFrames() *Frames {
	return &Frames{frames: make(map[string][]byte)}
}

func frameKey(width, height, blockSize int) string {
	return fmt.Sprintf("%dx%d@%d", width, height, blockSize)
}

// Get 返回已缓存的帧
func (f *Frames) Get(seq uint64, width, height, blockSize int) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.seq != seq {
		return nil, false
	}
	data, exists := f.frames[frameKey(width, height, blockSize)]
	return data, exists
}

// Put 保存一帧，旧快照的帧会被丢弃
func (f *Frames) Put(seq uint64, width, height, blockSize int, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seq != seq {
		f.seq = seq
		f.frames = make(map[string][]byte)
	}
	f.frames[frameKey(width, height, blockSize)] = data
}

// Len 当前缓存的帧数
func (f *Frames) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.frames)
}
