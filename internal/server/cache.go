package server

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	huffman "github.com/chronos-tachyon/huffcode"
)

type cacheEntry struct {
	counts []huffman.SymbolCount
	dict   huffman.Dictionary
}

// codeCache memoizes Build results keyed by the ordered count list.  Entries
// are keyed by a 64-bit hash and verified against the stored counts, so a
// hash collision costs a rebuild rather than a wrong answer.
type codeCache struct {
	entries *lru.Cache[uint64, cacheEntry]
}

func newCodeCache(size int) (*codeCache, error) {
	entries, err := lru.New[uint64, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &codeCache{entries: entries}, nil
}

// dictionary returns the Dictionary for counts, building it on a miss.  The
// second result reports whether the cache was hit.
func (c *codeCache) dictionary(counts []huffman.SymbolCount) (huffman.Dictionary, bool, error) {
	key := fingerprint(counts)
	if entry, found := c.entries.Get(key); found && slices.Equal(entry.counts, counts) {
		return entry.dict, true, nil
	}

	tree, err := huffman.Build(counts)
	if err != nil {
		return huffman.Dictionary{}, false, err
	}
	dict := tree.Dictionary()
	c.entries.Add(key, cacheEntry{counts: slices.Clone(counts), dict: dict})
	return dict, false, nil
}

func (c *codeCache) len() int {
	return c.entries.Len()
}

func fingerprint(counts []huffman.SymbolCount) uint64 {
	d := xxhash.New()
	var scratch [8]byte
	for _, sc := range counts {
		binary.LittleEndian.PutUint64(scratch[:], uint64(len(sc.Symbol)))
		_, _ = d.Write(scratch[:])
		_, _ = d.WriteString(string(sc.Symbol))
		binary.LittleEndian.PutUint64(scratch[:], sc.Count)
		_, _ = d.Write(scratch[:])
	}
	return d.Sum64()
}
