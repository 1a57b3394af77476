package uploads

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	cldapi "github.com/cloudinary/cloudinary-go/v2/api/uploader"

	config "github.com/novahogar2025-gif/Backend-final/configs"
)

// Uploader pushes product images to Cloudinary. The first uploaded file
// becomes the main catalog image, the rest go into the gallery.
type Uploader struct {
	cld *cloudinary.Cloudinary
}

func New(cfg config.CloudinaryConfig) (*Uploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary configuration is incomplete")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &Uploader{cld: cld}, nil
}

// UploadProductImages stores each file under the product's folder and
// returns the main image URL plus the additional gallery URLs.
func (u *Uploader) UploadProductImages(ctx context.Context, productID uint, files []*multipart.FileHeader) (string, []string, error) {
	var urls []string

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return "", nil, fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
		}

		resp, err := u.cld.Upload.Upload(ctx, file, cldapi.UploadParams{
			Folder: fmt.Sprintf("novaHogar/productos/%d", productID),
		})
		file.Close()
		if err != nil {
			return "", nil, fmt.Errorf("failed to upload %s: %w", header.Filename, err)
		}

		urls = append(urls, resp.SecureURL)
	}

	if len(urls) == 0 {
		return "", nil, fmt.Errorf("no images uploaded")
	}
	return urls[0], urls[1:], nil
}
