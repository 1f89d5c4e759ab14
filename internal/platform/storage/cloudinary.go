package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloud, key, secret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloud, key, secret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, file File) (Stored, error) {
	if err := validate(file); err != nil {
		return Stored{}, err
	}
	resp, err := c.cld.Upload.Upload(ctx, file.Body, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return Stored{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return Stored{}, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return Stored{Name: file.Name, URL: resp.SecureURL}, nil
}
