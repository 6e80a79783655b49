package extract

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	modTime int64
	size    int64
	text    string
}

// textCache keeps extracted text keyed by path, invalidated when the file's
// mtime or size changes.
type textCache struct {
	entries *lru.Cache[string, cacheEntry]
}

func newTextCache(n int) *textCache {
	c, err := lru.New[string, cacheEntry](n)
	if err != nil {
		return nil
	}
	return &textCache{entries: c}
}

func (c *textCache) get(path string) (string, bool) {
	if c == nil {
		return "", false
	}
	entry, ok := c.entries.Get(path)
	if !ok {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.ModTime().UnixNano() != entry.modTime || info.Size() != entry.size {
		c.entries.Remove(path)
		return "", false
	}
	return entry.text, true
}

func (c *textCache) put(path, text string) {
	if c == nil {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	c.entries.Add(path, cacheEntry{
		modTime: info.ModTime().UnixNano(),
		size:    info.Size(),
		text:    text,
	})
}
