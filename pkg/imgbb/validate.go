package imgbb

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// MaxFileSize is the largest image payload the API accepts (32 MiB).
	MaxFileSize = 32 * 1024 * 1024

	// MinExpiration and MaxExpiration bound the auto-deletion delay in seconds.
	MinExpiration = 60
	MaxExpiration = 15552000
)

// SupportedExtensions lists the file extensions accepted for path sources.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return validationError("API key is required and must be a non-empty string")
	}
	return nil
}

func validateExpiration(expiration int) error {
	if expiration == 0 {
		return nil
	}
	if expiration < MinExpiration || expiration > MaxExpiration {
		return validationError(
			fmt.Sprintf("expiration must be between %d and %d seconds", MinExpiration, MaxExpiration),
			goerr.V("expiration", expiration),
			goerr.V("min", MinExpiration),
			goerr.V("max", MaxExpiration),
		)
	}
	return nil
}

func validateSize(size int64) error {
	if size > MaxFileSize {
		return validationError(
			fmt.Sprintf("file size exceeds maximum: %d bytes (max %d bytes)", size, MaxFileSize),
			goerr.V("size", size),
			goerr.V("max_size", MaxFileSize),
		)
	}
	return nil
}

func validateExtension(ext string) error {
	ext = strings.ToLower(ext)
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return nil
		}
	}
	return validationError(
		"invalid image type, supported formats: JPEG, PNG, GIF, BMP, WEBP. got: "+ext,
		goerr.V("extension", ext),
	)
}
