package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/core/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/dto"
	"github.com/cropdoctor/cropdoctor-backend/internal/utils"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, authProvider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, passwordHash, updatedAt)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) registerRequest() dto.RegisterUserRequest {
	return dto.RegisterUserRequest{
		Username: "farmer1",
		Email:    "farmer1@example.com",
		FullName: "Farmer One",
		Password: "secret-password",
	}
}

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := suite.registerRequest()

	suite.mockUserRepo.On("FindUserByUsername", ctx, req.Username).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == req.Username && user.Email == req.Email && user.PasswordHash != req.Password
	})).Return(nil).Once()

	createdUser, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdUser)
	suite.Equal(req.Username, createdUser.Username)
	suite.NotEmpty(createdUser.UserID)
	suite.NotEqual(req.Password, createdUser.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, createdUser.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateUsername() {
	ctx := context.Background()
	req := suite.registerRequest()
	existing := &domain.User{UserID: uuid.NewString(), Username: req.Username}

	suite.mockUserRepo.On("FindUserByUsername", ctx, req.Username).Return(existing, nil).Once()

	createdUser, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	req := suite.registerRequest()
	existing := &domain.User{UserID: uuid.NewString(), Email: req.Email}

	suite.mockUserRepo.On("FindUserByUsername", ctx, req.Username).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(existing, nil).Once()

	createdUser, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateRace() {
	// The unique index wins a race the pre-checks missed; still a validation error.
	ctx := context.Background()
	req := suite.registerRequest()

	suite.mockUserRepo.On("FindUserByUsername", ctx, req.Username).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	createdUser, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "correct-horse"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "farmer1", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "farmer1").Return(user, nil).Once()

	authed, err := suite.service.AuthenticateUser(ctx, "farmer1", password)

	suite.Require().NoError(err)
	suite.Equal(user.UserID, authed.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_ByEmail() {
	ctx := context.Background()
	password := "correct-horse"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "farmer1@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "farmer1@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "farmer1@example.com").Return(user, nil).Once()

	authed, err := suite.service.AuthenticateUser(ctx, "farmer1@example.com", password)

	suite.Require().NoError(err)
	suite.Equal(user.UserID, authed.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("right-password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "farmer1", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "farmer1").Return(user, nil).Once()

	authed, err := suite.service.AuthenticateUser(ctx, "farmer1", "wrong-password")

	suite.Require().Error(err)
	suite.Nil(authed)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUser() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByUsername", ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()

	authed, err := suite.service.AuthenticateUser(ctx, "nobody", "whatever")

	suite.Require().Error(err)
	suite.Nil(authed)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestChangePassword_WrongOldPassword() {
	ctx := context.Background()
	userID := uuid.NewString()
	hash, err := utils.HashPassword("actual-old")
	suite.Require().NoError(err)
	user := &domain.User{UserID: userID, PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()

	err = suite.service.ChangePassword(ctx, userID, "guessed-old", "new-password")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestChangePassword_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	hash, err := utils.HashPassword("actual-old")
	suite.Require().NoError(err)
	user := &domain.User{UserID: userID, PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdatePassword", ctx, userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	err = suite.service.ChangePassword(ctx, userID, "actual-old", "new-password")

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_ExistingProviderIdentity() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{ID: "goog-123", Email: "farmer1@example.com", Name: "Farmer One"}
	existing := &domain.User{UserID: uuid.NewString(), ProviderUserID: info.ID}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "google", info.ID).Return(existing, nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Equal(existing.UserID, user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_CreatesOnFirstSignIn() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{ID: "goog-123", Email: "new@example.com", Name: "New Farmer"}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "google", info.ID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, info.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == info.Email && user.AuthProvider == "google" && user.PasswordHash == ""
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Equal("new", user.Username)
	suite.mockUserRepo.AssertExpectations(suite.T())
}
