package snake

import "github.com/hoshinonyaruko/snake-grid/structs"

// SpawnFood 在随机格子上生成一个食物。
// 不检查是否与蛇或其他食物重叠，同一格可以有多个食物
func (w *World) SpawnFood() structs.Food {
	f := structs.Food{
		ID: w.newID(),
		Position: structs.Position{
			X: w.rng.Intn(w.width),
			Y: w.rng.Intn(w.height),
		},
		Extent: FoodExtent,
	}
	w.food = append(w.food, f)
	log.Debugf("food %d spawned at %v", f.ID, f.Position)
	return f
}

// Consume 移除所有位于 pos 的食物，每移除一个就记一次增长信号
func (w *World) Consume(pos structs.Position) int {
	kept := w.food[:0]
	eaten := 0
	for _, f := range w.food {
		if f.Position == pos {
			eaten++
			continue
		}
		kept = append(kept, f)
	}
	// 清掉尾部残留，避免旧数据被引用
	for i := len(kept); i < len(w.food); i++ {
		w.food[i] = structs.Food{}
	}
	w.food = kept
	w.growth += eaten
	return eaten
}

// Food 返回当前食物的副本
func (w *World) Food() []structs.Food {
	out := make([]structs.Food, len(w.food))
	copy(out, w.food)
	return out
}

// PlaceFood 在指定位置放一个食物，供测试和回放使用
func (w *World) PlaceFood(pos structs.Position) structs.Food {
	f := structs.Food{ID: w.newID(), Position: pos, Extent: FoodExtent}
	w.food = append(w.food, f)
	return f
}

func (w *World) despawnFood() {
	w.food = nil
}
