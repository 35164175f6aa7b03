package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"chemsolver/internal/entity"
)

//go:embed data/elements.json data/topics.yaml
var dataFS embed.FS

// ErrNotFound 表示找不到對應的元素或主題
var ErrNotFound = errors.New("not found")

// Catalog 是唯讀的元素表與學習主題，啟動時載入一次
type Catalog struct {
	elements []entity.Element
	bySymbol map[string]int // lower(symbol) -> index
	topics   []entity.Topic
	topicIdx map[string]int
}

// Load 從內嵌的資料檔建立 Catalog
func Load() (*Catalog, error) {
	raw, err := dataFS.ReadFile("data/elements.json")
	if err != nil {
		return nil, fmt.Errorf("read elements: %w", err)
	}
	var elements []entity.Element
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}

	raw, err = dataFS.ReadFile("data/topics.yaml")
	if err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}
	var topics []entity.Topic
	if err := yaml.Unmarshal(raw, &topics); err != nil {
		return nil, fmt.Errorf("decode topics: %w", err)
	}

	return New(elements, topics)
}

// New builds a catalog from already decoded data (used by tests).
func New(elements []entity.Element, topics []entity.Topic) (*Catalog, error) {
	c := &Catalog{
		elements: elements,
		bySymbol: make(map[string]int, len(elements)),
		topics:   topics,
		topicIdx: make(map[string]int, len(topics)),
	}

	for i := range c.elements {
		e := &c.elements[i]
		if e.Number != i+1 {
			return nil, fmt.Errorf("element %q: expected atomic number %d, got %d", e.Symbol, i+1, e.Number)
		}
		key := strings.ToLower(e.Symbol)
		if _, dup := c.bySymbol[key]; dup {
			return nil, fmt.Errorf("duplicate element symbol %q", e.Symbol)
		}
		c.bySymbol[key] = i
		if e.Phase == "" {
			e.Phase = Phase(e.Number)
		}
	}

	for i, t := range c.topics {
		if t.ID == "" {
			return nil, fmt.Errorf("topic #%d has no id", i)
		}
		if _, dup := c.topicIdx[t.ID]; dup {
			return nil, fmt.Errorf("duplicate topic id %q", t.ID)
		}
		c.topicIdx[t.ID] = i
	}

	return c, nil
}

// MustLoad is Load for callers that cannot continue without the catalog.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// -------------------------------------------------------
// Elements
// -------------------------------------------------------

// Elements 回傳所有元素 (依原子序排序) 的複本
func (c *Catalog) Elements() []entity.Element {
	out := make([]entity.Element, len(c.elements))
	copy(out, c.elements)
	return out
}

// Element 依原子序查詢
func (c *Catalog) Element(number int) (entity.Element, error) {
	if number < 1 || number > len(c.elements) {
		return entity.Element{}, fmt.Errorf("element %d: %w", number, ErrNotFound)
	}
	return c.elements[number-1], nil
}

// ElementBySymbol 依元素符號查詢 (不分大小寫)
func (c *Catalog) ElementBySymbol(symbol string) (entity.Element, error) {
	i, ok := c.bySymbol[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return entity.Element{}, fmt.Errorf("element %q: %w", symbol, ErrNotFound)
	}
	return c.elements[i], nil
}

// Lookup accepts either an atomic number or a symbol.
func (c *Catalog) Lookup(id string) (entity.Element, error) {
	if n, err := strconv.Atoi(id); err == nil {
		return c.Element(n)
	}
	return c.ElementBySymbol(id)
}

// -------------------------------------------------------
// Topics
// -------------------------------------------------------

// TopicFilter 對應 Learn 頁面的分頁與搜尋框
type TopicFilter struct {
	Type  string // "", "all", "compound", "reaction"
	Query string
}

// Topics 回傳符合條件的主題，保持資料檔中的順序
func (c *Catalog) Topics(f TopicFilter) []entity.Topic {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]entity.Topic, 0, len(c.topics))
	for _, t := range c.topics {
		if f.Type != "" && f.Type != "all" && t.Type != f.Type {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) &&
			!strings.Contains(strings.ToLower(t.Formula), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Topic 依 id 查詢單一主題
func (c *Catalog) Topic(id string) (entity.Topic, error) {
	i, ok := c.topicIdx[id]
	if !ok {
		return entity.Topic{}, fmt.Errorf("topic %q: %w", id, ErrNotFound)
	}
	return c.topics[i], nil
}
