package cache

import (
	"container/list"
	"sync"

	"github.com/pkg/errors"
)

// Cache is a weight-budgeted LRU cache. Each item carries a weight, and the
// cache evicts least recently used items whenever the total weight exceeds
// the budget.
type Cache interface {
	GetWeight() int
	GetBudget() int
	Insert(key string, value interface{}, weight int) error
	Retrieve(key string) (interface{}, bool)
	Remove(key string) bool
	Clear()
}

type entry struct {
	key    string
	value  interface{}
	weight int
}

type cache struct {
	mu     sync.Mutex
	order  *list.List // front = most recently used
	lookup map[string]*list.Element
	weight int
	budget int
}

// NewCache initializes and returns a new cache with the given weight budget.
func NewCache(budget int) Cache {
	return &cache{
		order:  list.New(),
		lookup: make(map[string]*list.Element),
		budget: budget,
	}
}

// GetWeight returns the current total weight of items in the cache.
func (c *cache) GetWeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.weight
}

// GetBudget returns the weight budget of the cache.
func (c *cache) GetBudget() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.budget
}

// Insert adds a new item to the cache, evicting least recently used items
// as needed to stay within budget. Inserting an existing key is an error.
func (c *cache) Insert(key string, value interface{}, weight int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, found := c.lookup[key]; found {
		return errors.New("key already exists in cache")
	}

	elem := c.order.PushFront(&entry{
		key:    key,
		value:  value,
		weight: weight,
	})
	c.lookup[key] = elem
	c.weight += weight

	for c.weight > c.budget && c.order.Len() > 0 {
		oldest := c.order.Back()
		evicted := oldest.Value.(*entry)
		c.order.Remove(oldest)
		delete(c.lookup, evicted.key)
		c.weight -= evicted.weight
	}

	return nil
}

// Retrieve fetches an item by key and marks it as recently used.
func (c *cache) Retrieve(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.lookup[key]
	if !found {
		return nil, false
	}

	c.order.MoveToFront(elem)
	return elem.Value.(*entry).value, true
}

// Remove deletes an item by key, reporting whether it was present.
func (c *cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.lookup[key]
	if !found {
		return false
	}

	c.order.Remove(elem)
	delete(c.lookup, key)
	c.weight -= elem.Value.(*entry).weight
	return true
}

// Clear removes all items from the cache.
func (c *cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.lookup = make(map[string]*list.Element)
	c.weight = 0
}
