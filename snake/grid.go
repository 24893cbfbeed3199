// 网格模型：坐标空间和越界判断
package snake

import "github.com/hoshinonyaruko/snake-grid/structs"

// 默认地图尺寸，开局后不再变化
const (
	ArenaWidth  = 10
	ArenaHeight = 10
)

// 各类实体绘图时占格子的比例
var (
	HeadExtent = structs.Square(0.8)
	TailExtent = structs.Square(0.6)
	FoodExtent = structs.Square(0.8)
)

// Width 地图宽度
func (w *World) Width() int { return w.width }

// Height 地图高度
func (w *World) Height() int { return w.height }

// InBounds 判断坐标是否在 [0,width)×[0,height) 之内
func (w *World) InBounds(p structs.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w.width && p.Y < w.height
}
