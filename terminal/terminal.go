// Package terminal 在终端里显示网格并读取方向键
package terminal

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-grid/game"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorDimGray)
	headStyle   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	tailStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	foodStyle   = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// 每个格子占两列，看起来接近正方形
const cellWidth = 2

type Frontend struct {
	screen tcell.Screen
	input  *game.Latch
	hub    *game.Hub
}

// New 初始化终端屏幕
func New(input *game.Latch, hub *game.Hub) (*Frontend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, input, hub)
}

// NewWithScreen 使用给定的屏幕，测试时传入 SimulationScreen
func NewWithScreen(screen tcell.Screen, input *game.Latch, hub *game.Hub) (*Frontend, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	return &Frontend{screen: screen, input: input, hub: hub}, nil
}

// pumpEvents 把 poll 得到的事件转发到 events，poll 返回 nil 或 done 关闭后退出
func pumpEvents(poll func() tcell.Event, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Run 处理按键并在每次快照更新时重绘，按 Esc、q 或 Ctrl-C 时调用 quit
func (f *Frontend) Run(ctx context.Context, quit func()) {
	defer f.screen.Fini()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(f.screen.PollEvent, events, done)

	snapshots, cancel := f.hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !f.handleEvent(ev) {
				quit()
				return
			}
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			f.Draw(snap)
		}
	}
}

func (f *Frontend) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return f.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		f.screen.Sync()
		f.Draw(f.hub.Latest())
	}
	return true
}

// handleKey 返回 false 表示退出
func (f *Frontend) handleKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC || (key == tcell.KeyRune && r == 'q') {
		return false
	}
	if dir, ok := keyDirection(key, r); ok {
		f.input.Press(dir)
	}
	return true
}

// keyDirection 方向键和 WASD
func keyDirection(key tcell.Key, r rune) (structs.Direction, bool) {
	switch key {
	case tcell.KeyLeft:
		return structs.Left, true
	case tcell.KeyRight:
		return structs.Right, true
	case tcell.KeyUp:
		return structs.Up, true
	case tcell.KeyDown:
		return structs.Down, true
	case tcell.KeyRune:
		switch r {
		case 'a', 'A':
			return structs.Left, true
		case 'd', 'D':
			return structs.Right, true
		case 'w', 'W':
			return structs.Up, true
		case 's', 'S':
			return structs.Down, true
		}
	}
	return structs.Up, false
}

// cell 返回格子在屏幕上的列和行，y 向上为正，所以行需要翻转
func cell(p structs.Position, height int) (col, row int) {
	return 1 + p.X*cellWidth, 1 + (height - 1 - p.Y)
}

func (f *Frontend) fill(p structs.Position, height int, r rune, style tcell.Style) {
	col, row := cell(p, height)
	for i := 0; i < cellWidth; i++ {
		f.screen.SetContent(col+i, row, r, nil, style)
	}
}

// Draw 画出边框、食物、蛇和状态栏
func (f *Frontend) Draw(snap structs.Snapshot) {
	f.screen.Clear()
	w, h := snap.Width*cellWidth, snap.Height

	for x := 0; x <= w+1; x++ {
		f.screen.SetContent(x, 0, '─', nil, borderStyle)
		f.screen.SetContent(x, h+1, '─', nil, borderStyle)
	}
	for y := 1; y <= h; y++ {
		f.screen.SetContent(0, y, '│', nil, borderStyle)
		f.screen.SetContent(w+1, y, '│', nil, borderStyle)
	}

	for _, food := range snap.Food {
		f.fill(food.Position, snap.Height, '●', foodStyle)
	}
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		seg := snap.Snake[i]
		// 撞墙那一帧之后会立即重生，这里只是防止越界写入
		if seg.Position.X < 0 || seg.Position.Y < 0 || seg.Position.X >= snap.Width || seg.Position.Y >= snap.Height {
			continue
		}
		if seg.Head {
			f.fill(seg.Position, snap.Height, '█', headStyle)
		} else {
			f.fill(seg.Position, snap.Height, '▓', tailStyle)
		}
	}

	status := fmt.Sprintf("length %d  tick %d  %s", len(snap.Snake), snap.Tick, snap.Direction)
	for i, r := range status {
		f.screen.SetContent(i, h+2, r, nil, statusStyle)
	}
	f.screen.Show()
}
