package textcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github-portfolio/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_PutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Open(path, logger.NewNop())

	_, ok := c.Get("desc-a")
	assert.False(t, ok)

	require.NoError(t, c.Put("desc-a", "first"))
	v, ok := c.Get("desc-a")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	// 同一个 key 不会被覆盖
	require.NoError(t, c.Put("desc-a", "second"))
	v, _ = c.Get("desc-a")
	assert.Equal(t, "first", v)
	assert.Equal(t, 1, c.Len())
}

func TestFileCache_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")

	c := Open(path, logger.NewNop())
	require.NoError(t, c.Put("bio-x", "Seasoned engineer."))
	require.NoError(t, c.Put("desc-y", "A CLI tool."))

	// 文件是扁平的 JSON 对象
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, map[string]string{"bio-x": "Seasoned engineer.", "desc-y": "A CLI tool."}, onDisk)

	reopened := Open(path, logger.NewNop())
	v, ok := reopened.Get("bio-x")
	assert.True(t, ok)
	assert.Equal(t, "Seasoned engineer.", v)
	assert.Equal(t, 2, reopened.Len())

	// 没有残留的临时文件
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileCache_OpenEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "文件不存在", content: nil},
		{name: "空文件", content: strPtr("")},
		{name: "损坏的 JSON", content: strPtr("{not json")},
		{name: "类型不对", content: strPtr(`["a", "b"]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cache.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			c := Open(path, logger.NewNop())
			assert.Equal(t, 0, c.Len())

			// 损坏的文件会在下一次写入时被整体替换
			require.NoError(t, c.Put("k", "v"))
			assert.Equal(t, 1, Open(path, logger.NewNop()).Len())
		})
	}
}

func TestFileCache_MemoryOnly(t *testing.T) {
	c := Open("", nil)
	require.NoError(t, c.Put("k", "v"))

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFileCache_WriteFailureKeepsValue(t *testing.T) {
	dir := t.TempDir()
	// 用一个普通文件占住父目录的位置，让 MkdirAll 失败
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	c := Open(filepath.Join(blocker, "cache.json"), logger.NewNop())
	err := c.Put("k", "v")

	assert.Error(t, err)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFileCache_ConcurrentPut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Open(path, logger.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, c.Put(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i)))
			c.Get("key-0")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, Open(path, logger.NewNop()).Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("desc", "repo", "Go"), Key("desc", "repo", "Go"))
	assert.NotEqual(t, Key("desc", "repo", "Go"), Key("desc", "repo", "Rust"))
	assert.NotEqual(t, Key("desc", "repo"), Key("bio", "repo"))
	assert.NotEqual(t, Key("desc", "ab", "c"), Key("desc", "a", "bc"))
	assert.Regexp(t, `^desc-[0-9a-f]{64}$`, Key("desc", "repo", "Go"))
}

func strPtr(s string) *string { return &s }
