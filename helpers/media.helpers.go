package helpers

import (
	"mime/multipart"

	"LINKUP_server/errors"
	"LINKUP_server/global"

	"github.com/gofiber/fiber/v2"
	minio "github.com/minio/minio-go/v7"
)

// UploadMedia stores an uploaded file in the media bucket and returns its object path
func UploadMedia(c *fiber.Ctx, file *multipart.FileHeader, prefix string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", errors.HandleInternalError(c, "media_open", err.Error())
	}
	defer src.Close()

	id, err := NewID()
	if err != nil {
		return "", errors.HandleInternalError(c, "media_id", err.Error())
	}

	objectName := prefix + "/" + id
	_, err = global.MinIOClient.PutObject(global.Context, "media", objectName, src, file.Size, minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", errors.HandleInternalError(c, "minio_put", err.Error())
	}

	return objectName, nil
}

// GetMedia streams a stored object out of the media bucket
func GetMedia(objectName string) (*minio.Object, error) {
	return global.MinIOClient.GetObject(global.Context, "media", objectName, minio.GetObjectOptions{})
}
