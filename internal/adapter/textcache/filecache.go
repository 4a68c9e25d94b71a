package textcache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github-portfolio/internal/common"
	"github-portfolio/internal/logger"

	"go.uber.org/zap"
)

// FileCache 生成文本的持久化缓存，实现了 port.TextCache 接口
//
// 整张表常驻内存，启动时从磁盘加载一次；每次 Put 都把整张表重写到磁盘。
// 同一个 key 只会写入一次，之后的 Put 被忽略。
type FileCache struct {
	path    string
	mu      sync.RWMutex
	entries map[string]string
	log     logger.Logger
}

// Open 加载缓存文件。文件不存在、不可读或内容损坏时都从空表开始，不返回错误。
// path 为空时只在内存中缓存。
func Open(path string, log logger.Logger) *FileCache {
	if log == nil {
		log = logger.NewNop()
	}
	c := &FileCache{
		path:    path,
		entries: make(map[string]string),
		log:     log,
	}
	if path == "" {
		return c
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("缓存文件不存在，从空表开始", zap.String("path", path))
	case err != nil:
		log.Error("⚠️ 读取缓存文件失败，从空表开始", err, zap.String("path", path))
	case len(data) > 0:
		if err := json.Unmarshal(data, &c.entries); err != nil {
			log.Error("⚠️ 缓存文件已损坏，从空表开始", err, zap.String("path", path))
			c.entries = make(map[string]string)
		}
	}

	log.Info("💾 文本缓存已加载", zap.String("path", path), zap.Int("entries", len(c.entries)))
	return c
}

// Get 读取缓存
func (c *FileCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put 写入缓存并落盘。key 已存在时什么都不做。
// 落盘失败时内存中的值仍然保留，错误返回给调用方记录日志。
func (c *FileCache) Put(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return nil
	}
	c.entries[key] = value

	if c.path == "" {
		return nil
	}
	if err := c.persistLocked(); err != nil {
		return common.WrapError(common.ErrCodeCache, "failed to persist text cache", err)
	}
	return nil
}

// Len 当前条目数
func (c *FileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// persistLocked 先写同目录下的临时文件再 rename，避免留下写了一半的文件
func (c *FileCache) persistLocked() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Key 由类别和输入内容生成缓存键：kind-sha256(输入)
// 每个输入前面带上长度，("ab","c") 和 ("a","bc") 不会撞 key
func Key(kind string, inputs ...string) string {
	h := sha256.New()
	var size [8]byte
	for _, in := range inputs {
		binary.BigEndian.PutUint64(size[:], uint64(len(in)))
		h.Write(size[:])
		h.Write([]byte(in))
	}
	return kind + "-" + hex.EncodeToString(h.Sum(nil))
}
