package app

import (
	"fmt"
	"sync"

	"github.com/riotkit-org/backup-repository/internal/auth/command"
	authHTTP "github.com/riotkit-org/backup-repository/internal/auth/http"
	authRepository "github.com/riotkit-org/backup-repository/internal/auth/repository"
	authSecurity "github.com/riotkit-org/backup-repository/internal/auth/security"
	authService "github.com/riotkit-org/backup-repository/internal/auth/service"
	authUseCase "github.com/riotkit-org/backup-repository/internal/auth/usecase"
	"github.com/riotkit-org/backup-repository/internal/database"
)

type authComponents struct {
	tokenService           authService.TokenService
	tokenRepository        authUseCase.TokenRepository
	userManager            authUseCase.UserManager
	tokenHandler           *authHTTP.TokenHandler
	singleFileTokenCommand *command.SingleFileTokenCommand

	tokenServiceInit           sync.Once
	tokenRepositoryInit        sync.Once
	userManagerInit            sync.Once
	tokenHandlerInit           sync.Once
	singleFileTokenCommandInit sync.Once
}

// TokenService returns the service generating and hashing token secrets.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// TokenRepository returns the token repository based on database driver.
func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	var err error
	c.tokenRepositoryInit.Do(func() {
		c.tokenRepository, err = c.initTokenRepository()
		if err != nil {
			c.setInitError("tokenRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenRepository, nil
}

// UserManager returns the token lifecycle manager.
func (c *Container) UserManager() (authUseCase.UserManager, error) {
	var err error
	c.userManagerInit.Do(func() {
		c.userManager, err = c.initUserManager()
		if err != nil {
			c.setInitError("userManager", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("userManager"); storedErr != nil {
		return nil, storedErr
	}
	return c.userManager, nil
}

// TokenHandler returns the HTTP handler for token management.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.setInitError("tokenHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// SingleFileTokenCommand returns the bus command revoking single use upload tokens.
func (c *Container) SingleFileTokenCommand() (*command.SingleFileTokenCommand, error) {
	var err error
	c.singleFileTokenCommandInit.Do(func() {
		var userManager authUseCase.UserManager
		userManager, err = c.UserManager()
		if err != nil {
			err = fmt.Errorf("failed to get user manager for single file token command: %w", err)
			c.setInitError("singleFileTokenCommand", err)
			return
		}
		c.singleFileTokenCommand = command.NewSingleFileTokenCommand(userManager, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("singleFileTokenCommand"); storedErr != nil {
		return nil, storedErr
	}
	return c.singleFileTokenCommand, nil
}

// initTokenRepository creates the token repository based on the database driver.
func (c *Container) initTokenRepository() (authUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return authRepository.NewPostgreSQLTokenRepository(db), nil
	case database.DriverMySQL:
		return authRepository.NewMySQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserManager creates the user manager with all its dependencies.
func (c *Container) initUserManager() (authUseCase.UserManager, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user manager: %w", err)
	}

	tokenRepository, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for user manager: %w", err)
	}

	baseManager := authUseCase.NewUserManager(c.config, txManager, tokenRepository, c.TokenService())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for user manager: %w", err)
		}
		return authUseCase.NewUserManagerWithMetrics(baseManager, businessMetrics), nil
	}

	return baseManager, nil
}

// initTokenHandler creates the token HTTP handler with all its dependencies.
func (c *Container) initTokenHandler() (*authHTTP.TokenHandler, error) {
	userManager, err := c.UserManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get user manager for token handler: %w", err)
	}

	return authHTTP.NewTokenHandler(userManager, authSecurity.NewContextFactory(), c.Logger()), nil
}
