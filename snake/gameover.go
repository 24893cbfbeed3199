package snake

// GameOver 有结束信号时清空蛇和所有食物并重新生成蛇，返回结束原因
func (w *World) GameOver() (Cause, bool) {
	if !w.gameOver {
		return NoCollision, false
	}
	cause := w.cause
	log.Infof("game over (%s collision) at length %d", cause, len(w.body))
	w.despawnSnake()
	w.despawnFood()
	w.Spawn()
	w.gameOver = false
	w.cause = NoCollision
	return cause, true
}

// Pending 返回尚未处理的增长信号数量和结束信号
func (w *World) Pending() (growth int, gameOver bool) {
	return w.growth, w.gameOver
}
