package app

import (
	"fmt"
	"sync"

	collectionHTTP "github.com/riotkit-org/backup-repository/internal/collection/http"
	collectionRepository "github.com/riotkit-org/backup-repository/internal/collection/repository"
	collectionSecurity "github.com/riotkit-org/backup-repository/internal/collection/security"
	collectionUseCase "github.com/riotkit-org/backup-repository/internal/collection/usecase"
	"github.com/riotkit-org/backup-repository/internal/database"
)

type collectionComponents struct {
	collectionRepository collectionUseCase.CollectionRepository
	collectionManager    collectionUseCase.CollectionManager
	collectionHandler    *collectionHTTP.CollectionHandler

	collectionRepositoryInit sync.Once
	collectionManagerInit    sync.Once
	collectionHandlerInit    sync.Once
}

// CollectionRepository returns the collection repository based on database driver.
func (c *Container) CollectionRepository() (collectionUseCase.CollectionRepository, error) {
	var err error
	c.collectionRepositoryInit.Do(func() {
		c.collectionRepository, err = c.initCollectionRepository()
		if err != nil {
			c.setInitError("collectionRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("collectionRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.collectionRepository, nil
}

// CollectionManager returns the collection manager.
func (c *Container) CollectionManager() (collectionUseCase.CollectionManager, error) {
	var err error
	c.collectionManagerInit.Do(func() {
		c.collectionManager, err = c.initCollectionManager()
		if err != nil {
			c.setInitError("collectionManager", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("collectionManager"); storedErr != nil {
		return nil, storedErr
	}
	return c.collectionManager, nil
}

// CollectionHandler returns the HTTP handler for collection management.
func (c *Container) CollectionHandler() (*collectionHTTP.CollectionHandler, error) {
	var err error
	c.collectionHandlerInit.Do(func() {
		var manager collectionUseCase.CollectionManager
		manager, err = c.CollectionManager()
		if err != nil {
			err = fmt.Errorf("failed to get collection manager for collection handler: %w", err)
			c.setInitError("collectionHandler", err)
			return
		}
		c.collectionHandler = collectionHTTP.NewCollectionHandler(manager, collectionSecurity.NewContextFactory(), c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("collectionHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.collectionHandler, nil
}

// initCollectionRepository creates the collection repository based on the database driver.
func (c *Container) initCollectionRepository() (collectionUseCase.CollectionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for collection repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return collectionRepository.NewPostgreSQLCollectionRepository(db), nil
	case database.DriverMySQL:
		return collectionRepository.NewMySQLCollectionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCollectionManager creates the collection manager, wrapped with metrics when enabled.
func (c *Container) initCollectionManager() (collectionUseCase.CollectionManager, error) {
	repository, err := c.CollectionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get collection repository for collection manager: %w", err)
	}

	baseManager := collectionUseCase.NewCollectionManager(repository)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for collection manager: %w", err)
		}
		return collectionUseCase.NewCollectionManagerWithMetrics(baseManager, businessMetrics), nil
	}

	return baseManager, nil
}
