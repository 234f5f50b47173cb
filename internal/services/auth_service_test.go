package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
	"github.com/yukikurage/taskflow/internal/testutil"
	"github.com/yukikurage/taskflow/internal/token"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	tokens  *token.Manager
	service *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = testutil.NewDB(suite.T())
	suite.tokens = token.NewManager("test-secret", time.Hour)
	suite.service = NewAuthService(repository.NewUserRepository(suite.db), suite.tokens)
	suite.service.cost = bcrypt.MinCost
}

func (suite *AuthServiceTestSuite) TestRegister() {
	user, signed, err := suite.service.Register(suite.ctx, RegisterInput{
		Email:    "a@x.com",
		Password: "Password1",
		Name:     "Alice",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(user.ID)
	suite.NotEqual("Password1", user.PasswordHash)

	claims, err := suite.tokens.Parse(signed)
	suite.Require().NoError(err)
	suite.Equal(user.ID, claims.UserID)
	suite.Equal("a@x.com", claims.Email)
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	input := RegisterInput{Email: "a@x.com", Password: "Password1", Name: "Alice"}
	_, _, err := suite.service.Register(suite.ctx, input)
	suite.Require().NoError(err)

	_, _, err = suite.service.Register(suite.ctx, input)
	suite.ErrorIs(err, ErrEmailTaken)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.User{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *AuthServiceTestSuite) TestLogin() {
	_, _, err := suite.service.Register(suite.ctx, RegisterInput{Email: "a@x.com", Password: "Password1", Name: "Alice"})
	suite.Require().NoError(err)

	user, signed, err := suite.service.Login(suite.ctx, LoginInput{Email: "a@x.com", Password: "Password1"})
	suite.Require().NoError(err)
	suite.Equal("Alice", user.Name)
	suite.NotEmpty(signed)
}

func (suite *AuthServiceTestSuite) TestLogin_SameErrorForUnknownEmailAndWrongPassword() {
	_, _, err := suite.service.Register(suite.ctx, RegisterInput{Email: "a@x.com", Password: "Password1", Name: "Alice"})
	suite.Require().NoError(err)

	_, _, wrongPassword := suite.service.Login(suite.ctx, LoginInput{Email: "a@x.com", Password: "nope"})
	_, _, unknownEmail := suite.service.Login(suite.ctx, LoginInput{Email: "b@x.com", Password: "Password1"})

	suite.ErrorIs(wrongPassword, ErrInvalidCredentials)
	suite.ErrorIs(unknownEmail, ErrInvalidCredentials)
	suite.Equal(wrongPassword.Error(), unknownEmail.Error())
}

func (suite *AuthServiceTestSuite) TestAuthenticate() {
	user, signed, err := suite.service.Register(suite.ctx, RegisterInput{Email: "a@x.com", Password: "Password1", Name: "Alice"})
	suite.Require().NoError(err)

	found, err := suite.service.Authenticate(suite.ctx, signed)
	suite.Require().NoError(err)
	suite.Equal(user.ID, found.ID)

	_, err = suite.service.Authenticate(suite.ctx, "garbage")
	suite.ErrorIs(err, ErrUnauthenticated)

	orphan, err := suite.tokens.Issue("deleted-user", "gone@x.com")
	suite.Require().NoError(err)
	_, err = suite.service.Authenticate(suite.ctx, orphan)
	suite.ErrorIs(err, ErrUnauthenticated)
}

func (suite *AuthServiceTestSuite) TestGetProfile() {
	owner := testutil.CreateUser(suite.T(), suite.db, "owner@x.com", "Owner")
	testutil.CreateOrganization(suite.T(), suite.db, "acme", owner)

	profile, err := suite.service.GetProfile(suite.ctx, owner.ID)
	suite.Require().NoError(err)
	suite.Require().Len(profile.Memberships, 1)
	suite.Equal("acme", profile.Memberships[0].Organization.Slug)
	suite.Equal(models.RoleOwner, profile.Memberships[0].Role)

	_, err = suite.service.GetProfile(suite.ctx, "missing")
	suite.ErrorIs(err, ErrUserNotFound)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
