package snake

import "github.com/hoshinonyaruko/snake-grid/structs"

// TickResult 一次 tick 的结果
type TickResult struct {
	Direction structs.Direction // 本次移动使用的方向
	Head      structs.Position  // 移动后的蛇头，可能在地图外
	Eaten     int               // 吃掉的食物数
	Grew      bool
	Reset     bool // 发生碰撞并已重生
	Cause     Cause
	Length    int // tick 结束时蛇的长度
}

// Tick 按固定顺序执行一次更新：方向、移动与碰撞、进食、增长、结束与重生
func (w *World) Tick(in Input) TickResult {
	var res TickResult
	res.Direction = w.SetDirection(in)
	w.Move()
	res.Head = w.Head()
	res.Eaten = w.Eat()
	res.Grew = w.Grow()
	res.Cause, res.Reset = w.GameOver()
	res.Length = len(w.body)
	return res
}

// Snapshot 复制当前状态，供绘图和接口使用
func (w *World) Snapshot() structs.Snapshot {
	snap := structs.Snapshot{
		Width:     w.width,
		Height:    w.height,
		Direction: w.direction,
		Snake:     make([]structs.Segment, len(w.body)),
		Food:      w.Food(),
	}
	for i, id := range w.body {
		snap.Snake[i] = structs.Segment{
			ID:       uint64(id),
			Position: w.Position(id),
			Extent:   w.extents[id],
			Head:     i == 0,
		}
	}
	return snap
}
