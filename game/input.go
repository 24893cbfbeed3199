package game

import (
	"sync"

	"github.com/hoshinonyaruko/snake-grid/snake"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

// Latch 保存外部请求的方向，直到下一个 tick 取走。
// HTTP 和终端只能通过它改变方向，不直接接触 World
type Latch struct {
	mu  sync.Mutex
	dir structs.Direction
	set bool
}

// NewLatch 创建一个空的输入锁存
func NewLatch() *Latch {
	return &Latch{}
}

// Press 记录一次方向请求，同一 tick 内后到的请求覆盖先到的
func (l *Latch) Press(d structs.Direction) {
	l.mu.Lock()
	l.dir = d
	l.set = true
	l.mu.Unlock()
}

// Take 取出当前的按键状态并清空
func (l *Latch) Take() snake.Input {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := pressed{dir: l.dir, set: l.set}
	l.set = false
	return p
}

type pressed struct {
	dir structs.Direction
	set bool
}

func (p pressed) Pressed(d structs.Direction) bool {
	return p.set && p.dir == d
}
