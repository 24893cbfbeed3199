package snake

// Cause 本次 tick 结束游戏的原因
type Cause uint8

const (
	NoCollision Cause = iota
	WallCollision
	SelfCollision
)

func (c Cause) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	default:
		return ""
	}
}

func (w *World) signalGameOver(c Cause) {
	if w.gameOver {
		return
	}
	w.gameOver = true
	w.cause = c
}

// Move 执行一次移动：
//  1. 记录移动前每一节的位置
//  2. 蛇头沿当前方向前进一格
//  3. 越界检查
//  4. 与移动前位置比较，检查是否咬到自己
//  5. 第 i+1 节移动到第 i 节原来的位置
//  6. 记录蛇尾离开的格子
func (w *World) Move() {
	trail := w.Positions()

	head := w.body[0]
	dx, dy := w.direction.Delta()
	pos := w.positions[head].Add(dx, dy)
	w.positions[head] = pos

	if !w.InBounds(pos) {
		w.signalGameOver(WallCollision)
	}
	for _, p := range trail {
		if p == pos {
			w.signalGameOver(SelfCollision)
			break
		}
	}

	for i, id := range w.body[1:] {
		w.positions[id] = trail[i]
	}
	w.lastTail = trail[len(trail)-1]
}
