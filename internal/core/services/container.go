package services

import (
	portsrepo "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/repositories"
	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
)

// NewServiceContainer wires every application service over the repository
// provider and the external platform clients.
func NewServiceContainer(
	cfg *config.Config,
	repos *portsrepo.RepositoryProvider,
	storage portssvc.MediaStorageSvcFacade,
	diagnoser portssvc.DiagnosisSvcFacade,
) *portssvc.ServiceContainer {
	userService := NewUserService(repos.User)

	return &portssvc.ServiceContainer{
		User:        userService,
		Token:       NewTokenService(cfg, userService),
		Image:       NewImageService(repos.Image, storage, diagnoser),
		GoogleOAuth: NewGoogleOAuthHandlerService(cfg),
	}
}
