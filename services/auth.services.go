package services

import (
	"regexp"
	"strings"

	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/helpers"
	"LINKUP_server/schemas"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

var validUsername = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Register creates a new account and opens a session
func Register(c *fiber.Ctx) error {

	req := new(schemas.RegisterSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	if !validUsername.MatchString(req.Username) {
		return errors.HandleBadRequestError(c, "Username", "regex")
	}

	req.Email = strings.ToLower(req.Email)

	exists, err := global.DB.UsernameExists(c.Context(), req.Username)
	if err != nil {
		return errors.HandleInternalError(c, "users", err.Error())
	}
	if exists {
		return errors.HandleBadRequestError(c, "Username", "exists")
	}

	exists, err = global.DB.EmailExists(c.Context(), req.Email)
	if err != nil {
		return errors.HandleInternalError(c, "users", err.Error())
	}
	if exists {
		return errors.HandleBadRequestError(c, "Email", "exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.HandleInternalError(c, "password", "hashing error")
	}

	id, err := helpers.NewID()
	if err != nil {
		return errors.HandleInternalError(c, "user_id", err.Error())
	}

	user := &schemas.User{
		ID:           id,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
	}
	if err = global.DB.CreateUser(c.Context(), user); err != nil {
		return errors.HandleInternalError(c, "users", err.Error())
	}

	tokens, err := helpers.CreateSession(c, user.ID)
	if err != nil {
		return err
	}

	return helpers.DataResponse(c, "Account created", fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

// Login verifies credentials and opens a session
func Login(c *fiber.Ctx) error {

	req := new(schemas.LoginSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	req.Email = strings.ToLower(req.Email)

	user, err := global.DB.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.IsApp(err) {
			return errors.HandleUnauthorizedError(c)
		}
		return errors.HandleInternalError(c, "users", err.Error())
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return errors.HandleUnauthorizedError(c)
	}

	tokens, err := helpers.CreateSession(c, user.ID)
	if err != nil {
		return err
	}

	return helpers.DataResponse(c, "Logged in", fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh rotates the refresh token of an existing session
func Refresh(c *fiber.Ctx) error {

	req := new(schemas.RefreshSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	res, err := global.RedisClient.HGetAll(global.Context, "refreshtokens:"+req.SessionID).Result()
	if err != nil {
		return errors.HandleInternalError(c, "get_refresh_tokens", "Redis: "+err.Error())
	}
	if _, ok := res["token"]; !ok {
		return errors.HandleUnauthorizedError(c)
	}

	if err = helpers.GenerateAndRefreshTokens(c, res["userid"], req.SessionID, req.RefreshToken != res["token"]); err != nil {
		return err
	}

	return helpers.OKResponse(c, "Session refreshed")
}

// Logout closes a session
func Logout(c *fiber.Ctx) error {

	req := new(schemas.RefreshSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	if err := global.RedisClient.Del(global.Context, "refreshtokens:"+req.SessionID).Err(); err != nil {
		return errors.HandleInternalError(c, "del_refresh_tokens", "Redis: "+err.Error())
	}

	return helpers.OKResponse(c, "Logged out")
}
