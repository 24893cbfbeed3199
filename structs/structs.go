package structs

import (
	"fmt"
	"strings"
)

// Position 描述网格上的一个格子坐标。
type Position struct {
	X int `json:"x"` // X坐标，向右为正
	Y int `json:"y"` // Y坐标，向上为正
}

// Add 返回按 (dx, dy) 平移后的坐标
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Extent 描述实体占格子的比例，只用于绘图。
type Extent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Square 返回宽高相同的 Extent
func Square(x float64) Extent {
	return Extent{Width: x, Height: x}
}

// Direction 蛇头的朝向
type Direction uint8

const (
	Left Direction = iota
	Up
	Right
	Down
)

// Directions 按输入优先级排列：左、右、下、上
var Directions = []Direction{Left, Right, Down, Up}

// Opposite 返回相反方向
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	default:
		return Up
	}
}

// Delta 返回沿该方向移动一格的偏移量，Up 为 +y
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, 1
	default:
		return 0, -1
	}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection 解析 "up", "down", "left", "right"（不区分大小写）
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "up":
		return Up, nil
	case "right":
		return Right, nil
	case "down":
		return Down, nil
	}
	return Up, fmt.Errorf("invalid direction '%s' provided", s)
}

// MarshalText 让方向在 JSON 里以字符串出现
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Food 一个食物，只占一个格子
type Food struct {
	ID       uint64   `json:"id"`
	Position Position `json:"position"`
	Extent   Extent   `json:"extent"`
}

// Segment 蛇身上的一节，Head 为 true 的是蛇头
type Segment struct {
	ID       uint64   `json:"id"`
	Position Position `json:"position"`
	Extent   Extent   `json:"extent"`
	Head     bool     `json:"head"`
}

// Snapshot 一次 tick 之后整个网格的只读状态，供绘图和接口使用。
type Snapshot struct {
	EpisodeID string    `json:"episode_id"` // 本局标识，每次重生都会变化
	Tick      int64     `json:"tick"`       // 本局已执行的 tick 数
	Seq       uint64    `json:"seq"`        // 发布序号，每次发布都递增（包括生成食物）
	Width     int       `json:"width"`      // 地图宽度
	Height    int       `json:"height"`     // 地图高度
	Direction Direction `json:"direction"`  // 蛇头朝向
	Snake     []Segment `json:"snake"`      // 蛇头在前
	Food      []Food    `json:"food"`       // 食物
}

// Head 返回蛇头位置，没有蛇时返回 false
func (s Snapshot) Head() (Position, bool) {
	if len(s.Snake) == 0 {
		return Position{}, false
	}
	return s.Snake[0].Position, true
}

// TickRecord 一次 tick 的日志，写入 sqlite 供回放和排查
type TickRecord struct {
	EpisodeID string    `json:"episode_id"`
	Tick      int64     `json:"tick"`
	Direction Direction `json:"direction"`
	HeadX     int       `json:"head_x"`
	HeadY     int       `json:"head_y"`
	Length    int       `json:"length"`
	Event     string    `json:"event"` // "", "grow", "wall", "self"
}
