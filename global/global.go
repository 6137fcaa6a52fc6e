package global

import (
	"context"
	"crypto/rsa"
	"log"
	"time"

	"LINKUP_server/crypt"
	"LINKUP_server/db"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	minio "github.com/minio/minio-go/v7"
)

// InternalLogger for failures that should never happen
var InternalLogger *log.Logger

// MonitorLogger for suspicious but harmless requests
var MonitorLogger *log.Logger

// DB for the global sqlite system of record
var DB *db.DB

// RedisClient for global redis queries (refresh-token sessions)
var RedisClient *redis.Client

// MinIOClient for global media storage access
var MinIOClient *minio.Client

// Codec encrypts and decrypts message bodies at rest
var Codec *crypt.Codec

// JwtKey used to sign jwt tokens
var JwtKey *rsa.PrivateKey

// JwtParseKey used to parse jwt tokens
var JwtParseKey *rsa.PublicKey

// RefreshTokenDuration determines the length of a refresh token (60 days)
var RefreshTokenDuration time.Duration = time.Hour * 24 * 60

// Context is the default context
var Context = context.Background()

// Validator validates incoming bodys of data
var Validator = validator.New()
