package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hoshinonyaruko/snake-grid/structs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("sqlite")

const createTicksTableSQL = `
CREATE TABLE IF NOT EXISTS Ticks (
    EpisodeID TEXT,
    Tick INTEGER,
    Direction TEXT,
    HeadX INTEGER,
    HeadY INTEGER,
    Length INTEGER,
    Event TEXT,
    RecordedAt TIMESTAMP,
    PRIMARY KEY (EpisodeID, Tick)
);
`

const createTicksIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_ticks_recorded ON Ticks (RecordedAt);
`

const insertTickSQL = `INSERT OR REPLACE INTO Ticks (EpisodeID, Tick, Direction, HeadX, HeadY, Length, Event, RecordedAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// 单个事务最多写入的记录数
const batchSize = 64

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("executing SQL statement %q: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createTicksTableSQL, createTicksIndexSQL} {
		if err := executeSQL(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Journal 异步把 tick 日志写入 sqlite。Record 从不阻塞，缓冲满时丢弃记录
type Journal struct {
	db      *sql.DB
	records chan structs.TickRecord
	done    chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64

	// pending 已接收但尚未写完的记录数，归零时唤醒 Flush
	pendingMu sync.Mutex
	idle      *sync.Cond
	pending   int
}

// Open 打开数据库文件并建表
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// 单连接，读写串行，避免 database is locked
	db.SetMaxOpenConns(1)
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return NewJournal(db, 1024), nil
}

// NewJournal 启动写入 goroutine
func NewJournal(db *sql.DB, buffer int) *Journal {
	j := &Journal{
		db:      db,
		records: make(chan structs.TickRecord, buffer),
		done:    make(chan struct{}),
	}
	j.idle = sync.NewCond(&j.pendingMu)
	go j.loop()
	return j
}

// Record 实现 game.Recorder
func (j *Journal) Record(rec structs.TickRecord) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}
	j.addPending(1)
	select {
	case j.records <- rec:
	default:
		j.addPending(-1)
		n := j.dropped.Add(1)
		log.Warningf("journal buffer full, dropped tick %d of %s (%d dropped so far)", rec.Tick, rec.EpisodeID, n)
	}
}

func (j *Journal) loop() {
	defer close(j.done)
	batch := make([]structs.TickRecord, 0, batchSize)
	for rec := range j.records {
		batch = append(batch[:0], rec)
	drain:
		for len(batch) < batchSize {
			select {
			case next, ok := <-j.records:
				if !ok {
					break drain
				}
				batch = append(batch, next)
			default:
				break drain
			}
		}
		if err := j.write(batch); err != nil {
			log.Errorf("journal write of %d records failed: %v", len(batch), err)
		}
		j.addPending(-len(batch))
	}
}

func (j *Journal) write(batch []structs.TickRecord) error {
	// 开启事务
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, rec := range batch {
		_, err = tx.Exec(insertTickSQL, rec.EpisodeID, rec.Tick, rec.Direction.String(), rec.HeadX, rec.HeadY, rec.Length, rec.Event, now)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	// 提交事务
	return tx.Commit()
}

// Close 等待缓冲中的记录写完后关闭数据库
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.records)
	j.mu.Unlock()
	<-j.done
	return j.db.Close()
}

func (j *Journal) addPending(delta int) {
	j.pendingMu.Lock()
	j.pending += delta
	if j.pending == 0 {
		j.idle.Broadcast()
	}
	j.pendingMu.Unlock()
}

// Flush 阻塞直到已接收的记录全部写完，可以与 Record 并发调用
func (j *Journal) Flush() {
	j.pendingMu.Lock()
	for j.pending > 0 {
		j.idle.Wait()
	}
	j.pendingMu.Unlock()
}

// Dropped 因缓冲已满而丢弃的记录数
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

// Recent 按写入顺序倒序返回最近 limit 条记录
func (j *Journal) Recent(limit int) ([]structs.TickRecord, error) {
	rows, err := j.db.Query(`SELECT EpisodeID, Tick, Direction, HeadX, HeadY, Length, Event FROM Ticks ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// Episode 返回某一局的全部记录，按 tick 排序
func (j *Journal) Episode(episodeID string) ([]structs.TickRecord, error) {
	rows, err := j.db.Query(`SELECT EpisodeID, Tick, Direction, HeadX, HeadY, Length, Event FROM Ticks WHERE EpisodeID = ? ORDER BY Tick`, episodeID)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]structs.TickRecord, error) {
	defer rows.Close()
	records := []structs.TickRecord{}
	for rows.Next() {
		var rec structs.TickRecord
		var dir string
		if err := rows.Scan(&rec.EpisodeID, &rec.Tick, &dir, &rec.HeadX, &rec.HeadY, &rec.Length, &rec.Event); err != nil {
			return nil, err
		}
		if err := rec.Direction.UnmarshalText([]byte(dir)); err != nil {
			return nil, fmt.Errorf("tick %d of %s: %w", rec.Tick, rec.EpisodeID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
