package middlewares

import (
	"strings"
	"time"

	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Authenticate authenticates refresh and access tokens
func Authenticate(c *fiber.Ctx) error {

	sessionID := string(c.Request().Header.Peek("x-session-id"))
	refreshToken := string(c.Request().Header.Peek("x-refresh-token"))
	refresh := string(c.Request().Header.Peek("x-refresh"))
	expireAt, err := helpers.ParseStringToInt(string(c.Request().Header.Peek("x-refresh-token-expire")))
	if err != nil || sessionID == "" || refreshToken == "" {
		return errors.HandleUnauthorizedError(c)
	}

	authorization := string(c.Request().Header.Peek("Authorization"))
	chunks := strings.Split(authorization, "Bearer ")
	if len(chunks) != 2 {
		return errors.HandleUnauthorizedError(c)
	}
	accessToken := chunks[1]

	if time.Unix(expireAt, 0).Before(time.Now().UTC()) {
		return errors.HandleBadRequestError(c, "RefreshToken", "expired")
	}

	userID, err := helpers.ParseJWT(accessToken)
	if err != nil {
		return errors.HandleUnauthorizedError(c)
	}
	if userID == "expired" {
		res, err := global.RedisClient.HGetAll(global.Context, "refreshtokens:"+sessionID).Result()
		if err != nil {
			return errors.HandleInternalError(c, "get_refresh_tokens", "Redis: "+err.Error())
		}

		if _, ok := res["token"]; !ok {
			return errors.HandleUnauthorizedError(c)
		}

		userID = res["userid"]

		if refresh == "true" {
			if err = helpers.GenerateAndRefreshTokens(c, userID, sessionID, refreshToken != res["token"]); err != nil {
				return err
			}
		}
	}

	c.Locals("userid", userID)
	return c.Next()
}

// AuthenticateStream authenticates websocket connection
func AuthenticateStream(c *fiber.Ctx) error {

	if websocket.IsWebSocketUpgrade(c) {
		accessToken := c.Query("token")

		userID, err := helpers.ParseJWT(accessToken)
		if err != nil {
			return errors.HandleUnauthorizedError(c)
		}
		if userID == "expired" {
			return errors.HandleBadRequestError(c, "AccessToken", "expired")
		}

		user, err := global.DB.GetUserByID(c.Context(), userID)
		if err != nil {
			return errors.HandleUnauthorizedError(c)
		}

		c.Locals("userid", userID)
		c.Locals("username", user.Username)
		return c.Next()
	}

	return errors.HandleInternalError(c, "websocket_upgrade", fiber.ErrUpgradeRequired.Error())
}
