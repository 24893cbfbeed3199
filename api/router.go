package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-grid/game"
	"github.com/hoshinonyaruko/snake-grid/memimg"
	"github.com/hoshinonyaruko/snake-grid/render"
	"github.com/hoshinonyaruko/snake-grid/structs"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("api")

// JournalReader 查询 tick 日志
type JournalReader interface {
	Recent(limit int) ([]structs.TickRecord, error)
	Episode(episodeID string) ([]structs.TickRecord, error)
}

// Server 各个接口依赖的对象，Journal 可以为 nil
type Server struct {
	Input     *game.Latch
	Hub       *game.Hub
	Frames    *memimg.Frames
	Journal   JournalReader
	BlockSize func() int
}

// NewRouter 注册所有接口
func NewRouter(s *Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(s.Input))
	// 当前状态
	router.GET("/state", StateHandler(s.Hub))
	// 渲染函数 返回 PNG
	router.GET("/render-map", RenderMapHandler(s.Hub, s.Frames, s.BlockSize))
	router.GET("/journal", JournalHandler(s.Journal))
	router.GET("/ws", StreamHandler(s.Hub, s.Input))
	return router
}

func UpdateDirection(input *game.Latch) gin.HandlerFunc {
	return func(c *gin.Context) {
		newDirection := c.Query("direction")
		// 验证是否提供了必要的查询参数
		if newDirection == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: direction"})
			return
		}
		dir, err := structs.ParseDirection(newDirection)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.Press(dir)
		c.JSON(http.StatusOK, gin.H{"message": "Direction updated successfully", "direction": dir})
	}
}

func StateHandler(hub *game.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Latest())
	}
}

func RenderMapHandler(hub *game.Hub, frames *memimg.Frames, blockSize func() int) gin.HandlerFunc {
	return func(c *gin.Context) {
		width, err := strconv.Atoi(c.DefaultQuery("width", "0"))
		if err != nil || width < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a non-negative integer"})
			return
		}
		height, err := strconv.Atoi(c.DefaultQuery("height", "0"))
		if err != nil || height < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "height must be a non-negative integer"})
			return
		}

		snap := hub.Latest()
		block := blockSize()
		data, ok := frames.Get(snap.Seq, width, height, block)
		if !ok {
			img := render.Resize(render.Frame(snap, block), width, height)
			data, err = render.EncodePNG(img)
			if err != nil {
				log.Errorf("encode frame: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render map"})
				return
			}
			frames.Put(snap.Seq, width, height, block, data)
		}
		c.Data(http.StatusOK, "image/png", data)
	}
}

func JournalHandler(journal JournalReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if journal == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "journal is disabled"})
			return
		}
		var (
			records []structs.TickRecord
			err     error
		)
		if episode := c.Query("episode"); episode != "" {
			records, err = journal.Episode(episode)
		} else {
			limit, convErr := strconv.Atoi(c.DefaultQuery("limit", "50"))
			if convErr != nil || limit <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			records, err = journal.Recent(limit)
		}
		if err != nil {
			log.Errorf("read journal: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read journal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ticks": records})
	}
}
