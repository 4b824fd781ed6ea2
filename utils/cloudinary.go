package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const galleryFolder = "studio-gallery"

// InitCloudinary initializes the Cloudinary client from the
// CLOUDINARY_* environment variables.
func InitCloudinary() (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"))
}

// GalleryImage is one item of the studio's public gallery.
type GalleryImage struct {
	PublicID  string    `json:"public_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadGalleryImage uploads a work photo into the gallery folder and
// returns its secure URL. file may be a path, an io.Reader, or a
// multipart file per the Cloudinary SDK.
func UploadGalleryImage(ctx context.Context, file interface{}) (*GalleryImage, error) {
	cld, err := InitCloudinary()
	if err != nil {
		return nil, err
	}

	publicID := fmt.Sprintf("work-%d", time.Now().UnixNano())
	resp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         galleryFolder,
		Transformation: "c_limit,w_1200,q_auto",
	})
	if err != nil {
		return nil, err
	}
	return &GalleryImage{PublicID: resp.PublicID, URL: resp.SecureURL, CreatedAt: time.Now()}, nil
}

// ListGalleryImages returns the gallery folder contents, newest first.
func ListGalleryImages(ctx context.Context) ([]GalleryImage, error) {
	cld, err := InitCloudinary()
	if err != nil {
		return nil, err
	}

	resp, err := cld.Admin.Assets(ctx, admin.AssetsParams{
		AssetType:  "image",
		Prefix:     galleryFolder + "/",
		MaxResults: 100,
	})
	if err != nil {
		return nil, err
	}

	images := make([]GalleryImage, 0, len(resp.Assets))
	for _, a := range resp.Assets {
		images = append(images, GalleryImage{
			PublicID:  a.PublicID,
			URL:       a.SecureURL,
			CreatedAt: a.CreatedAt,
		})
	}
	return images, nil
}

// DeleteGalleryImage removes one image by its public ID.
func DeleteGalleryImage(ctx context.Context, publicID string) error {
	cld, err := InitCloudinary()
	if err != nil {
		return err
	}
	_, err = cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}
