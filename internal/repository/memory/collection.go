package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"proprental-backend/internal/domain"
)

// Entity is implemented by every stored aggregate. The explicit accessor
// replaces id lookup by field name.
type Entity interface {
	EntityID() int32
}

// Collection is a mutex-guarded in-memory table of one entity type,
// optionally snapshotted to a JSON file after every mutation. One lock per
// collection, held for the duration of a single call; there is no
// cross-collection transaction.
type Collection[T Entity] struct {
	name string
	path string
	mu   sync.Mutex

	items map[int32]T
}

// NewCollection loads the snapshot at path when it exists. An empty path
// keeps the collection purely in memory.
func NewCollection[T Entity](name, path string) (*Collection[T], error) {
	c := &Collection[T]{
		name:  name,
		path:  path,
		items: make(map[int32]T),
	}
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s snapshot: %w", name, err)
	}
	var loaded []T
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse %s snapshot: %w", name, err)
	}
	for _, item := range loaded {
		c.items[item.EntityID()] = item
	}
	return c, nil
}

func (c *Collection[T]) GetByID(id int32) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, &domain.NotFoundError{Entity: c.name, ID: id}
	}
	return clone(item)
}

// List returns copies of all items ordered by id.
func (c *Collection[T]) List() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, 0, len(c.items))
	for _, item := range c.items {
		copied, err := clone(item)
		if err != nil {
			return nil, err
		}
		items = append(items, copied)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].EntityID() < items[j].EntityID() })
	return items, nil
}

// Find returns copies of all items matching the predicate.
func (c *Collection[T]) Find(pred func(T) bool) ([]T, error) {
	items, err := c.List()
	if err != nil {
		return nil, err
	}
	var matched []T
	for _, item := range items {
		if pred(item) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (c *Collection[T]) Create(item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := item.EntityID()
	if _, exists := c.items[id]; exists {
		return &domain.ConflictError{Message: fmt.Sprintf("%s %d already exists", c.name, id)}
	}
	copied, err := clone(item)
	if err != nil {
		return err
	}
	c.items[id] = copied
	return c.save()
}

func (c *Collection[T]) Update(item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := item.EntityID()
	if _, exists := c.items[id]; !exists {
		return &domain.NotFoundError{Entity: c.name, ID: id}
	}
	copied, err := clone(item)
	if err != nil {
		return err
	}
	c.items[id] = copied
	return c.save()
}

func (c *Collection[T]) Delete(id int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; !exists {
		return &domain.NotFoundError{Entity: c.name, ID: id}
	}
	delete(c.items, id)
	return c.save()
}

// NextID returns max id + 1, starting at 1.
func (c *Collection[T]) NextID() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var max int32
	for id := range c.items {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// save writes the snapshot; callers hold the lock.
func (c *Collection[T]) save() error {
	if c.path == "" {
		return nil
	}
	items := make([]T, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].EntityID() < items[j].EntityID() })
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", c.name, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s snapshot: %w", c.name, err)
	}
	return nil
}

// clone round-trips through JSON so callers never alias stored state.
func clone[T any](item T) (T, error) {
	var out T
	data, err := json.Marshal(item)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}
