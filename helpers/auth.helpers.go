package helpers

import (
	"fmt"
	"time"

	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/schemas"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
)

// GenerateJWT generates a jwt token with a claim
func GenerateJWT(c *fiber.Ctx, userID string) (string, error) {
	exp := time.Now().Add(time.Hour * 1).Unix()
	user := jwt.MapClaims{}
	user["id"] = userID
	user["exp"] = exp
	jt := jwt.NewWithClaims(jwt.SigningMethodRS256, user)
	token, err := jt.SignedString(global.JwtKey)
	if err != nil {
		return "", errors.HandleInternalError(c, "jwt", "jwt: "+err.Error())
	}
	return token, nil
}

// ParseJWT parses a jwt to userID
func ParseJWT(jwtString string) (string, error) {
	token, err := jwt.Parse(jwtString, func(token *jwt.Token) (interface{}, error) {
		return global.JwtParseKey, nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors == jwt.ValidationErrorExpired {
			return "expired", nil
		}
		return "", err
	}
	user, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.NewValidationError("invalid claims", jwt.ValidationErrorClaimsInvalid)
	}
	return user["id"].(string), nil
}

// CreateSession opens a fresh session in redis and returns the full
// token set for the response body
func CreateSession(c *fiber.Ctx, userID string) (schemas.TokensSchema, error) {

	var tokens schemas.TokensSchema
	var err error

	tokens.SessionID, err = NewID()
	if err != nil {
		return tokens, errors.HandleInternalError(c, "session_id", err.Error())
	}

	tokens.RefreshToken, err = RandomTokenString(40)
	if err != nil {
		return tokens, errors.HandleInternalError(c, "token", "hex token error")
	}
	tokens.ExpiresAt = time.Now().UTC().Add(global.RefreshTokenDuration).Unix()

	record := map[string]interface{}{
		"token":  tokens.RefreshToken,
		"userid": userID,
		"ip":     c.IP(),
	}

	_, err = global.RedisClient.Pipelined(global.Context, func(pipe redis.Pipeliner) error {
		if err := pipe.HSet(global.Context, "refreshtokens:"+tokens.SessionID, record).Err(); err != nil {
			return err
		}
		return pipe.Expire(global.Context, "refreshtokens:"+tokens.SessionID, global.RefreshTokenDuration).Err()
	})
	if err != nil {
		return tokens, errors.HandleInternalError(c, "set_refresh_tokens", "Redis: "+err.Error())
	}

	tokens.AccessToken, err = GenerateJWT(c, userID)
	if tokens.AccessToken == "" {
		return tokens, err
	}

	return tokens, nil
}

// GenerateAndRefreshTokens generates and interacts with redis to store tokens and then sets response headers
func GenerateAndRefreshTokens(c *fiber.Ctx, userID string, sessionID string, delExistingRecord bool) error {

	var tokens schemas.TokensSchema
	redisError := false

	_, err := global.RedisClient.Pipelined(global.Context, func(pipe redis.Pipeliner) error {

		var err error

		if delExistingRecord {
			err = pipe.Del(global.Context, "refreshtokens:"+sessionID).Err()
			if err != nil {
				redisError = true
				return errors.HandleInternalError(c, "refresh_tokens", "Redis: "+err.Error())
			}
			redisError = true
			return errors.HandleUnauthorizedError(c)
		}

		tokens.RefreshToken, err = RandomTokenString(40)
		if err != nil {
			redisError = true
			return errors.HandleInternalError(c, "token", "hex token error")
		}

		tokens.ExpiresAt = time.Now().UTC().Add(global.RefreshTokenDuration).Unix()

		record := map[string]interface{}{
			"token":  tokens.RefreshToken,
			"userid": userID,
			"ip":     c.IP(),
		}

		err = pipe.HSet(global.Context, "refreshtokens:"+sessionID, record).Err()
		if err != nil {
			redisError = true
			return errors.HandleInternalError(c, "set_refresh_tokens", "Redis: "+err.Error())
		}
		err = pipe.Expire(global.Context, "refreshtokens:"+sessionID, global.RefreshTokenDuration).Err()
		if err != nil {
			redisError = true
			return errors.HandleInternalError(c, "expire_refresh_tokens", "Redis: "+err.Error())
		}

		tokens.AccessToken, err = GenerateJWT(c, userID)
		if tokens.AccessToken == "" {
			redisError = true
			return err
		}

		return nil
	})

	if redisError {
		return err
	}
	if err != nil {
		return errors.HandleInternalError(c, "pipeline", "Redis: "+err.Error())
	}

	c.Response().Header.Add("x-refreshed", "true")
	c.Response().Header.Add("x-refresh-token", tokens.RefreshToken)
	c.Response().Header.Add("x-refresh-token-expire", fmt.Sprint(tokens.ExpiresAt))
	c.Response().Header.Add("x-access-token", tokens.AccessToken)
	return nil
}
