package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/riotkit-org/backup-repository/internal/database"
	storageHTTP "github.com/riotkit-org/backup-repository/internal/storage/http"
	storageRepository "github.com/riotkit-org/backup-repository/internal/storage/repository"
	storageSecurity "github.com/riotkit-org/backup-repository/internal/storage/security"
	"github.com/riotkit-org/backup-repository/internal/storage/service"
	storageUseCase "github.com/riotkit-org/backup-repository/internal/storage/usecase"
)

type storageComponents struct {
	blobStorage    *service.BlobStorage
	passwordHasher *service.PasswordHasher
	fileRepository storageUseCase.FileRepository
	fileManager    storageUseCase.FileManager
	fileHandler    *storageHTTP.FileHandler

	blobStorageInit    sync.Once
	passwordHasherInit sync.Once
	fileRepositoryInit sync.Once
	fileManagerInit    sync.Once
	fileHandlerInit    sync.Once
}

// BlobStorage returns the bucket holding file contents, opened from the configured URL.
func (c *Container) BlobStorage() (*service.BlobStorage, error) {
	var err error
	c.blobStorageInit.Do(func() {
		c.blobStorage, err = service.OpenBlobStorage(context.Background(), c.config.StorageURL)
		if err != nil {
			err = fmt.Errorf("failed to open blob storage: %w", err)
			c.setInitError("blobStorage", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("blobStorage"); storedErr != nil {
		return nil, storedErr
	}
	return c.blobStorage, nil
}

// PasswordHasher returns the hasher protecting file passwords.
func (c *Container) PasswordHasher() *service.PasswordHasher {
	c.passwordHasherInit.Do(func() {
		c.passwordHasher = service.NewPasswordHasher()
	})
	return c.passwordHasher
}

// FileRepository returns the file metadata repository based on database driver.
func (c *Container) FileRepository() (storageUseCase.FileRepository, error) {
	var err error
	c.fileRepositoryInit.Do(func() {
		c.fileRepository, err = c.initFileRepository()
		if err != nil {
			c.setInitError("fileRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("fileRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.fileRepository, nil
}

// FileManager returns the file storage manager.
func (c *Container) FileManager() (storageUseCase.FileManager, error) {
	var err error
	c.fileManagerInit.Do(func() {
		c.fileManager, err = c.initFileManager()
		if err != nil {
			c.setInitError("fileManager", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("fileManager"); storedErr != nil {
		return nil, storedErr
	}
	return c.fileManager, nil
}

// FileHandler returns the HTTP handler for the file repository.
func (c *Container) FileHandler() (*storageHTTP.FileHandler, error) {
	var err error
	c.fileHandlerInit.Do(func() {
		c.fileHandler, err = c.initFileHandler()
		if err != nil {
			c.setInitError("fileHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("fileHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.fileHandler, nil
}

// initFileRepository creates the file repository based on the database driver.
func (c *Container) initFileRepository() (storageUseCase.FileRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for file repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return storageRepository.NewPostgreSQLFileRepository(db), nil
	case database.DriverMySQL:
		return storageRepository.NewMySQLFileRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initFileManager creates the file manager with all its dependencies.
func (c *Container) initFileManager() (storageUseCase.FileManager, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for file manager: %w", err)
	}

	repository, err := c.FileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get file repository for file manager: %w", err)
	}

	storage, err := c.BlobStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob storage for file manager: %w", err)
	}

	baseManager := storageUseCase.NewFileManager(
		txManager,
		repository,
		storage,
		c.PasswordHasher(),
		c.config.UploadMaxFileSize,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for file manager: %w", err)
		}
		return storageUseCase.NewFileManagerWithMetrics(baseManager, businessMetrics), nil
	}

	return baseManager, nil
}

// initFileHandler creates the file HTTP handler. Completed uploads are published on the event bus.
func (c *Container) initFileHandler() (*storageHTTP.FileHandler, error) {
	manager, err := c.FileManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get file manager for file handler: %w", err)
	}

	eventBus, err := c.EventBus()
	if err != nil {
		return nil, fmt.Errorf("failed to get event bus for file handler: %w", err)
	}

	logger := c.Logger()
	fetcher := service.NewHTTPFetcher(c.config.URLFetchTimeout, c.config.URLFetchRetryMax, logger)

	return storageHTTP.NewFileHandler(
		manager,
		eventBus,
		fetcher,
		storageSecurity.NewContextFactory(c.PasswordHasher()),
		logger,
	), nil
}
