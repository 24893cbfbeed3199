package snake

// Eat 蛇头与食物重叠时吃掉食物，返回吃掉的数量
func (w *World) Eat() int {
	n := w.Consume(w.Head())
	if n > 0 {
		log.Debugf("ate %d food at %v", n, w.Head())
	}
	return n
}

// Grow 有增长信号时在蛇尾离开的格子上加一节。
// 同一个 tick 吃到多个食物也只增长一节
func (w *World) Grow() bool {
	if w.growth == 0 {
		return false
	}
	w.growth = 0
	w.body = append(w.body, w.spawnSegment(w.lastTail, TailExtent))
	return true
}
