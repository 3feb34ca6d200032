// Package di provides a minimal service container with typed tokens.
// Factories are lazy and memoized: a service is built on first Get and
// shared afterwards.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns the service registered under name, building it if a
	// factory was registered. Panics if the name is unknown.
	Get(name string) any
}

// Container is the write side: modules register services during startup.
type Container interface {
	ServiceRegistry

	// Register stores a ready value under name.
	Register(name string, value any)

	// RegisterFactory stores a lazy constructor under name.
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type entry struct {
	value   any
	factory func(ServiceRegistry) any
	built   bool
}

type container struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{entries: make(map[string]*entry)}
}

func (c *container) Register(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = &entry{value: value, built: true}
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = &entry{factory: factory}
}

func (c *container) Get(name string) any {
	c.mu.Lock()
	e, ok := c.entries[name]
	if !ok {
		c.mu.Unlock()
		panic(fmt.Sprintf("di: service %q not registered", name))
	}
	if e.built {
		c.mu.Unlock()
		return e.value
	}
	// Mark built before releasing the lock so factories can resolve their
	// own dependencies through Get without deadlocking.
	factory := e.factory
	c.mu.Unlock()

	value := factory(c)

	c.mu.Lock()
	e.value = value
	e.built = true
	c.mu.Unlock()

	return value
}

// Token is a typed service key. The type parameter makes Get calls
// compile-time safe without casts at the call site.
type Token[T any] struct {
	name string
}

// NewToken creates a typed token with a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry name.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a typed factory under the token's name.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a typed service. Panics if the registered value does not
// match the token's type.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	value, ok := sr.Get(token.name).(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type %T", token.name, sr.Get(token.name)))
	}
	return value
}
