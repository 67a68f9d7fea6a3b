package storage

import (
	"context"

	"github.com/bwise1/travelog/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

const photoFolder = "travel-logs"

type Cloudinary struct {
	CLD *cloudinary.Cloudinary
}

func NewCloudinary(cfg *config.Config) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, errors.Wrap(err, "initialize Cloudinary")
	}

	return &Cloudinary{CLD: cld}, nil
}

// UploadPhoto stores an image under the trip's folder and returns its secure URL.
// file may be a path, URL or io.Reader.
func (c *Cloudinary) UploadPhoto(ctx context.Context, file interface{}, tripFolder, publicID string) (string, error) {
	resp, err := c.CLD.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   photoFolder + "/" + tripFolder,
		PublicID: publicID,
	})
	if err != nil {
		return "", errors.Wrap(err, "upload photo")
	}
	if resp.SecureURL == "" {
		return "", errors.New("upload photo: empty secure url")
	}
	return resp.SecureURL, nil
}
