// Package shared includes utilities used across the sharding node, chiefly
// the lifecycle management of its services.
package shared

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "registry")

// Service is a background worker of the sharding node. Services are wired
// once at node construction and driven through the registry.
type Service interface {
	// Start spawns any goroutines required by the service.
	Start()
	// Stop terminates all goroutines belonging to the service,
	// blocking until they are all terminated.
	Stop() error
	// Status returns error if the service is not considered healthy.
	Status() error
}

// ServiceRegistry holds the node's small, fixed set of services by name, in
// registration order. Services start in the order they were registered, which
// doubles as dependency order, and stop in reverse.
type ServiceRegistry struct {
	names    []string
	services map[string]Service
}

// NewServiceRegistry starts a registry instance for convenience.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[string]Service),
	}
}

// RegisterService appends a named service to the registry. Names must be
// unique; registering a duplicate is a wiring bug and returns an error.
func (s *ServiceRegistry) RegisterService(name string, service Service) error {
	if _, exists := s.services[name]; exists {
		return errors.Errorf("service %q already registered", name)
	}
	s.names = append(s.names, name)
	s.services[name] = service
	return nil
}

// StartAll initialized each service in order of registration.
func (s *ServiceRegistry) StartAll() {
	log.WithField("numServices", len(s.names)).Debug("Starting services")
	for _, name := range s.names {
		log.WithField("service", name).Debug("Starting service")
		s.services[name].Start()
	}
}

// StopAll ends every service in reverse order of registration, logging a
// failure if any service does not stop cleanly.
func (s *ServiceRegistry) StopAll() {
	for i := len(s.names) - 1; i >= 0; i-- {
		name := s.names[i]
		if err := s.services[name].Stop(); err != nil {
			log.WithError(err).WithField("service", name).Error("Could not stop service")
		}
	}
}

// Statuses returns the health of every registered service keyed by name.
func (s *ServiceRegistry) Statuses() map[string]error {
	statuses := make(map[string]error, len(s.names))
	for _, name := range s.names {
		statuses[name] = s.services[name].Status()
	}
	return statuses
}
