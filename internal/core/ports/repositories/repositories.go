package repositories

// RepositoryProvider bundles all repositories for dependency injection into
// the service layer.
type RepositoryProvider struct {
	User  UserRepository
	Image ImageRepository
}
