package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath       string `json:"selfpath"`
	Port           string `json:"port"`
	Blocksize      int    `json:"blocksize"`       // 绘图时每个格子的像素
	Width          int    `json:"width"`           // 地图宽度，开局后固定
	Height         int    `json:"height"`          // 地图高度，开局后固定
	StartX         int    `json:"start_x"`         // 蛇头出生位置
	StartY         int    `json:"start_y"`         // 蛇头出生位置
	StartDirection string `json:"start_direction"` // 出生朝向
	TickMs         int    `json:"tick_ms"`         // 移动间隔，毫秒
	FoodMs         int    `json:"food_ms"`         // 食物生成间隔，毫秒
	Seed           uint64 `json:"seed"`            // 0 表示使用当前时间
	Journal        string `json:"journal"`         // sqlite 文件路径，空字符串表示不记录
	LogLevel       string `json:"log_level"`
}

var (
	instance *AppConfig
	once     sync.Once
	mu       sync.RWMutex
)

// Default returns the built-in configuration
func Default() *AppConfig {
	return &AppConfig{
		SelfPath:       "127.0.0.1:38870",
		Port:           "38870",
		Blocksize:      50,
		Width:          10,
		Height:         10,
		StartX:         5,
		StartY:         5,
		StartDirection: "up",
		TickMs:         150,
		FoodMs:         1000,
		Journal:        "journal.db",
		LogLevel:       "INFO",
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		// Load the config file if it exists, otherwise create one
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			instance = Default()
			if err := saveConfig(filePath, instance); err != nil {
				panic(err)
			}
			return
		}
		cfg, err := Load(filePath)
		if err != nil {
			panic(err)
		}
		instance = cfg
	})
	return Get()
}

// Get returns the loaded configuration
func Get() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Load reads filePath on top of the defaults and validates the result
func Load(filePath string) (*AppConfig, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

// saveConfig saves the settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// Validate 检查地图尺寸、出生点和时间间隔
func (c *AppConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("grid must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.TickMs <= 0 || c.FoodMs <= 0 {
		return fmt.Errorf("tick_ms and food_ms must be positive")
	}
	if c.Blocksize <= 0 {
		return fmt.Errorf("blocksize must be positive")
	}
	dir, err := structs.ParseDirection(c.StartDirection)
	if err != nil {
		return err
	}
	// 蛇尾在蛇头后面一格，两者都要在地图内
	dx, dy := dir.Delta()
	for _, p := range []structs.Position{{X: c.StartX, Y: c.StartY}, {X: c.StartX - dx, Y: c.StartY - dy}} {
		if p.X < 0 || p.Y < 0 || p.X >= c.Width || p.Y >= c.Height {
			return fmt.Errorf("start (%d,%d) facing %s leaves the snake off the grid", c.StartX, c.StartY, dir)
		}
	}
	return nil
}

// Direction returns the parsed start direction
func (c *AppConfig) Direction() structs.Direction {
	d, _ := structs.ParseDirection(c.StartDirection)
	return d
}

// TickInterval 移动间隔
func (c *AppConfig) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// FoodInterval 食物生成间隔
func (c *AppConfig) FoodInterval() time.Duration {
	return time.Duration(c.FoodMs) * time.Millisecond
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	c := Get()
	switch key {
	case "selfpath":
		return c.SelfPath
	case "port":
		return c.Port
	case "blocksize":
		return c.Blocksize
	case "width":
		return c.Width
	case "height":
		return c.Height
	case "journal":
		return c.Journal
	case "log_level":
		return c.LogLevel
	default:
		return ""
	}
}
