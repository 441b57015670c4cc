package services

import (
	"fmt"
	"sort"
	"sync"
)

// ServiceRegistry lets modules reach each other's functionality through
// the interfaces in this package instead of importing each other.
type ServiceRegistry struct {
	mu       sync.RWMutex
	services map[string]interface{}
}

var globalRegistry = &ServiceRegistry{
	services: make(map[string]interface{}),
}

// Register stores a service under a unique name.
func Register(name string, service interface{}) error {
	if name == "" || service == nil {
		return fmt.Errorf("service name and implementation are required")
	}

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if _, exists := globalRegistry.services[name]; exists {
		return fmt.Errorf("service '%s' already registered", name)
	}
	globalRegistry.services[name] = service
	return nil
}

// Replace stores a service, overwriting any previous registration.
func Replace(name string, service interface{}) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.services[name] = service
}

// Get retrieves a service by name.
func Get(name string) (interface{}, error) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	service, exists := globalRegistry.services[name]
	if !exists {
		return nil, fmt.Errorf("service '%s' not found", name)
	}
	return service, nil
}

// GetService retrieves a service by name with type safety
func GetService[T any](name string) (T, error) {
	var zero T

	service, err := Get(name)
	if err != nil {
		return zero, err
	}

	typedService, ok := service.(T)
	if !ok {
		return zero, fmt.Errorf("service '%s' has wrong type", name)
	}
	return typedService, nil
}

// List returns all registered service names in sorted order.
func List() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	names := make([]string, 0, len(globalRegistry.services))
	for name := range globalRegistry.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset removes every registration. Used by tests.
func Reset() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.services = make(map[string]interface{})
}
