package main

import (
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"LINKUP_server/config"
	"LINKUP_server/crypt"
	"LINKUP_server/db"
	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/routes"
	"LINKUP_server/socket"

	redis "github.com/go-redis/redis/v8"
	fiber "github.com/gofiber/fiber/v2"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func init() {
	internalErrorsFile, err := os.OpenFile("internal_errors.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	errors.HandleFatalError(err)

	monitorErrorsFile, err := os.OpenFile("monitor_logs.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	errors.HandleFatalError(err)

	global.InternalLogger = log.New(internalErrorsFile, "", log.LstdFlags)
	global.MonitorLogger = log.New(monitorErrorsFile, "", log.LstdFlags)
	errors.InternalLogger = global.InternalLogger
	errors.MonitorLogger = global.MonitorLogger

	data, err := ioutil.ReadFile("./config.json")
	errors.HandleFatalError(err)

	err = json.Unmarshal(data, &config.Config)
	errors.HandleFatalError(err)

	jwtKeyStream, err := ioutil.ReadFile(config.Config.JwtKeyPath)
	errors.HandleFatalError(err)
	block, _ := pem.Decode(jwtKeyStream)
	global.JwtKey, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	errors.HandleFatalError(err)

	jwtKeyStream, err = ioutil.ReadFile(config.Config.JwtPubPath)
	errors.HandleFatalError(err)
	block, _ = pem.Decode(jwtKeyStream)
	global.JwtParseKey, err = x509.ParsePKCS1PublicKey(block.Bytes)
	errors.HandleFatalError(err)

	global.Codec, err = crypt.NewCodec(config.Config.MessageKey)
	errors.HandleFatalError(err)

	global.MinIOClient, err = minio.New(config.Config.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Config.MinIO.User, config.Config.MinIO.Password, ""),
		Secure: false,
	})
	errors.HandleFatalError(err)

	exists, err := global.MinIOClient.BucketExists(global.Context, "media")
	errors.HandleFatalError(err)
	if !exists {
		global.MinIOClient.MakeBucket(global.Context, "media", minio.MakeBucketOptions{Region: "us-east-1"})
	}

	global.RedisClient = redis.NewClient(&redis.Options{
		Addr:     config.Config.Redis.Addr,
		Password: config.Config.Redis.Password,
		DB:       config.Config.Redis.DB,
	})

	global.DB, err = db.New(config.Config.DatabasePath)
	errors.HandleFatalError(err)
	fmt.Println("Database initialized: " + config.Config.DatabasePath)
}

func main() {

	defer global.DB.Close()

	app := fiber.New()
	defer app.Shutdown()

	hub := socket.NewHub(global.DB, global.Codec)
	hub.Logger = global.InternalLogger

	routes.SetRoutes(app, hub)

	fmt.Println("Starting server on port: " + config.Config.Port)
	log.Fatal(app.Listen(config.Config.Port))
}
