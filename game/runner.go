package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-grid/snake"
	"github.com/hoshinonyaruko/snake-grid/structs"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("game")

// Recorder 接收每个 tick 的日志，实现方不能阻塞
type Recorder interface {
	Record(structs.TickRecord)
}

// Options 两个互不同步的定时器
type Options struct {
	Tick     time.Duration // 移动间隔，默认 150ms
	Food     time.Duration // 食物生成间隔，默认 1s
	Recorder Recorder
}

// Runner 独占 World，在一个 goroutine 里依次处理移动 tick 和食物 tick
type Runner struct {
	world   *snake.World
	input   *Latch
	hub     *Hub
	opts    Options
	episode string
	tick    int64
}

// NewRunner 创建 Runner 并发布初始快照
func NewRunner(world *snake.World, input *Latch, hub *Hub, opts Options) *Runner {
	if opts.Tick <= 0 {
		opts.Tick = 150 * time.Millisecond
	}
	if opts.Food <= 0 {
		opts.Food = time.Second
	}
	r := &Runner{
		world:   world,
		input:   input,
		hub:     hub,
		opts:    opts,
		episode: uuid.NewString(),
	}
	r.publish()
	return r
}

// Episode 当前这一局的标识
func (r *Runner) Episode() string { return r.episode }

// Step 执行一次 tick 并发布快照
func (r *Runner) Step() snake.TickResult {
	res := r.world.Tick(r.input.Take())
	r.tick++

	if r.opts.Recorder != nil {
		rec := structs.TickRecord{
			EpisodeID: r.episode,
			Tick:      r.tick,
			Direction: res.Direction,
			HeadX:     res.Head.X,
			HeadY:     res.Head.Y,
			Length:    res.Length,
		}
		switch {
		case res.Reset:
			rec.Event = res.Cause.String()
		case res.Grew:
			rec.Event = "grow"
		}
		r.opts.Recorder.Record(rec)
	}

	if res.Reset {
		log.Infof("episode %s ended after %d ticks (%s)", r.episode, r.tick, res.Cause)
		r.episode = uuid.NewString()
		r.tick = 0
	}
	r.publish()
	return res
}

// SpawnFood 生成一个食物并发布快照
func (r *Runner) SpawnFood() structs.Food {
	f := r.world.SpawnFood()
	r.publish()
	return f
}

func (r *Runner) publish() {
	snap := r.world.Snapshot()
	snap.EpisodeID = r.episode
	snap.Tick = r.tick
	r.hub.Publish(snap)
}

// Run 阻塞直到 ctx 结束。两个定时器在同一个 goroutine 中处理，不会并发修改 World
func (r *Runner) Run(ctx context.Context) error {
	tick := time.NewTicker(r.opts.Tick)
	defer tick.Stop()
	food := time.NewTicker(r.opts.Food)
	defer food.Stop()
	defer r.hub.Close()

	log.Infof("simulation started: %dx%d tick=%s food=%s", r.world.Width(), r.world.Height(), r.opts.Tick, r.opts.Food)
	for {
		select {
		case <-ctx.Done():
			log.Info("simulation stopped")
			return ctx.Err()
		case <-tick.C:
			r.Step()
		case <-food.C:
			r.SpawnFood()
		}
	}
}
