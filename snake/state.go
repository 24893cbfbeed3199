package snake

import (
	"fmt"
	"time"

	"github.com/hoshinonyaruko/snake-grid/structs"
	"github.com/op/go-logging"
	"golang.org/x/exp/rand"
)

var log = logging.MustGetLogger("snake")

// SegmentID 蛇身每一节的稳定标识
type SegmentID uint64

// Rand 食物随机位置的来源，*rand.Rand 满足该接口
type Rand interface {
	Intn(n int) int
}

// Input 每个 tick 查询哪些方向键处于按下状态
type Input interface {
	Pressed(d structs.Direction) bool
}

// Options 创建 World 所需的参数，零值字段使用默认值。
// (0,0) 和 Left 都是合法取值，所以 Start、Direction 用指针区分是否设置过：
// 未设置时蛇头在地图中心 (10×10 时为 (5,5))，朝上
type Options struct {
	Width     int
	Height    int
	Start     *structs.Position
	Direction *structs.Direction
	Rand      Rand
}

// DefaultOptions 10×10 地图，蛇头在 (5,5) 朝上
func DefaultOptions() Options {
	return Options{
		Width:  ArenaWidth,
		Height: ArenaHeight,
	}
}

// World 保存一条蛇和所有食物的状态。
// World 不是并发安全的，只能由一个 goroutine 持有。
type World struct {
	width    int
	height   int
	start    structs.Position
	startDir structs.Direction
	rng      Rand

	nextID    uint64
	positions map[SegmentID]structs.Position
	extents   map[SegmentID]structs.Extent
	body      []SegmentID // 蛇头在前，蛇尾在后
	direction structs.Direction
	lastTail  structs.Position // 上一次移动前蛇尾所在的格子

	food []structs.Food

	growth   int
	gameOver bool
	cause    Cause
}

// NewWorld 创建地图并生成初始的蛇
func NewWorld(opts Options) *World {
	if opts.Width <= 0 {
		opts.Width = ArenaWidth
	}
	if opts.Height <= 0 {
		opts.Height = ArenaHeight
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	start := structs.Position{X: opts.Width / 2, Y: opts.Height / 2}
	if opts.Start != nil {
		start = *opts.Start
	}
	dir := structs.Up
	if opts.Direction != nil {
		dir = *opts.Direction
	}
	w := &World{
		width:     opts.Width,
		height:    opts.Height,
		start:     start,
		startDir:  dir,
		rng:       opts.Rand,
		positions: make(map[SegmentID]structs.Position),
		extents:   make(map[SegmentID]structs.Extent),
	}
	w.Spawn()
	return w
}

func (w *World) newID() uint64 {
	w.nextID++
	return w.nextID
}

func (w *World) spawnSegment(pos structs.Position, extent structs.Extent) SegmentID {
	id := SegmentID(w.newID())
	w.positions[id] = pos
	w.extents[id] = extent
	return id
}

func (w *World) despawnSnake() {
	for _, id := range w.body {
		delete(w.positions, id)
		delete(w.extents, id)
	}
	w.body = nil
}

// Spawn 丢弃旧的蛇，在起点生成蛇头和紧跟其后的一节蛇尾
func (w *World) Spawn() {
	w.despawnSnake()
	dx, dy := w.startDir.Delta()
	tail := w.start.Add(-dx, -dy)
	w.body = []SegmentID{
		w.spawnSegment(w.start, HeadExtent),
		w.spawnSegment(tail, TailExtent),
	}
	w.direction = w.startDir
	w.lastTail = tail
	log.Debugf("snake spawned head=%v tail=%v facing=%s", w.start, tail, w.direction)
}

// SetDirection 按 左、右、下、上 的优先级读取输入；
// 没有按键时保持原方向，与当前方向相反的输入被忽略
func (w *World) SetDirection(in Input) structs.Direction {
	dir := w.direction
	if in != nil {
		for _, d := range structs.Directions {
			if in.Pressed(d) {
				dir = d
				break
			}
		}
	}
	if dir != w.direction.Opposite() {
		w.direction = dir
	}
	return w.direction
}

// Direction 蛇头当前朝向
func (w *World) Direction() structs.Direction { return w.direction }

// Body 返回蛇身标识的副本，蛇头在前
func (w *World) Body() []SegmentID {
	return append([]SegmentID(nil), w.body...)
}

// Len 蛇的长度（包含蛇头）
func (w *World) Len() int { return len(w.body) }

// Position 返回某一节的位置。标识不存在说明状态已经损坏，直接 panic
func (w *World) Position(id SegmentID) structs.Position {
	pos, ok := w.positions[id]
	if !ok {
		panic(fmt.Sprintf("snake: segment %d has no position", id))
	}
	return pos
}

// Head 蛇头位置
func (w *World) Head() structs.Position {
	return w.Position(w.body[0])
}

// Positions 按链表顺序返回所有节的位置
func (w *World) Positions() []structs.Position {
	out := make([]structs.Position, len(w.body))
	for i, id := range w.body {
		out[i] = w.Position(id)
	}
	return out
}

// LastVacated 最近一次移动中蛇尾离开的格子
func (w *World) LastVacated() structs.Position { return w.lastTail }
