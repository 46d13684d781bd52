package lambda

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"casagateway-proxy/internal/config"
	"casagateway-proxy/pkg/server"
)

// ContainerManager keeps the service container alive across warm
// invocations of the same Lambda instance
type ContainerManager struct {
	mu        sync.Mutex
	container *server.Container
	load      func() (*config.Config, error)
}

var (
	globalContainerManager *ContainerManager
	containerManagerOnce   sync.Once
)

// GetContainerManager returns the global container manager instance
func GetContainerManager() *ContainerManager {
	containerManagerOnce.Do(func() {
		globalContainerManager = NewContainerManager(config.GetOptimizedConfig)
	})
	return globalContainerManager
}

// NewContainerManager creates a manager that builds its container from load
func NewContainerManager(load func() (*config.Config, error)) *ContainerManager {
	return &ContainerManager{load: load}
}

// GetContainer returns the container, building it on first use. A failed
// build is retried on the next invocation instead of being cached.
func (cm *ContainerManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		return cm.container, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	server.ConfigureLogging(cfg.Logging)

	container, err := server.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	cm.container = container

	logrus.WithFields(config.GetServerlessConfig().LogFields()).
		WithField("environment", cfg.Environment).
		Info("Container initialized")
	return container, nil
}

// Cleanup performs cleanup operations
func (cm *ContainerManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}
	err := cm.container.Close()
	cm.container = nil
	return err
}
