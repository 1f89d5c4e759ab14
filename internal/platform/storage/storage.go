// Package storage puts uploaded employee files (photos, resumes,
// certificates) somewhere addressable by URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/platform/config"
)

var (
	ErrUnsupportedType = errors.New("only jpg, jpeg, png and pdf files are allowed")
	ErrEmptyFile       = errors.New("uploaded file is empty")
)

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

type File struct {
	Name string
	Size int64
	Body io.Reader
}

type Stored struct {
	Name string
	URL  string
}

type Uploader interface {
	Upload(ctx context.Context, file File) (Stored, error)
}

// Check rejects names whose extension is not an accepted upload type.
func Check(name string) error {
	if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

func contentType(name string) string {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

func objectKey(folder, name string) string {
	return path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(name)))
}

func validate(file File) error {
	if err := Check(file.Name); err != nil {
		return err
	}
	if file.Body == nil || file.Size == 0 {
		return ErrEmptyFile
	}
	return nil
}

// New builds the uploader selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg config.Config) (Uploader, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverCloudinary:
		return NewCloudinary(cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret, cfg.UploadFolder)
	case config.StorageDriverS3:
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Folder:          cfg.UploadFolder,
		})
	case config.StorageDriverLocal:
		return NewLocal(cfg.LocalUploadDir, cfg.UploadFolder, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
