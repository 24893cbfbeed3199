package game

import (
	"sync"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

// Hub 保存最新的快照并推送给订阅者
type Hub struct {
	mu     sync.RWMutex
	latest structs.Snapshot
	seq    uint64
	subs   map[chan structs.Snapshot]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan structs.Snapshot]struct{})}
}

// Publish 更新最新快照并分配发布序号。订阅者处理不过来时丢弃旧的推送，不阻塞模拟
func (h *Hub) Publish(s structs.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.seq++
	s.Seq = h.seq
	h.latest = s
	for ch := range h.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// Latest 最近一次发布的快照
func (h *Hub) Latest() structs.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Subscribe 返回一个接收快照的 channel 和取消订阅的函数。
// Hub 关闭后 channel 会被关闭
func (h *Hub) Subscribe() (<-chan structs.Snapshot, func()) {
	ch := make(chan structs.Snapshot, 1)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	if h.latest.EpisodeID != "" {
		ch <- h.latest
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// Close 关闭所有订阅
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
