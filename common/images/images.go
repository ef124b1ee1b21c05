// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package images stores recipe photos uploaded as data URLs.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"strings"
)

// ErrInvalidDataURL is returned for data URLs that are not base64 images.
var ErrInvalidDataURL = errors.New("images: invalid data URL")

// Writer writes files and returns their public URL.
type Writer interface {
	WriteFile(ctx context.Context, path string, contentType string, data []byte) (string, error)

	// DeleteFile deletes a file. Deleting a missing file is not an error.
	DeleteFile(ctx context.Context, path string) error
}

// ParseDataURL returns the content type and contents of a base64 image data
// URL such as data:image/png;base64,iVBOR....
func ParseDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data scheme", ErrInvalidDataURL)
	}
	ct, contents, ok := strings.Cut(rest, ";")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing content type", ErrInvalidDataURL)
	}
	if !strings.HasPrefix(ct, "image/") {
		return "", nil, fmt.Errorf("%w: only images supported, got %q", ErrInvalidDataURL, ct)
	}
	b64, ok := strings.CutPrefix(contents, "base64,")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 supported", ErrInvalidDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, fmt.Errorf("%w: decoding base64: %v", ErrInvalidDataURL, err)
	}
	return ct, data, nil
}

// ToJPEG converts a PNG or JPEG image to JPEG.
func ToJPEG(contentType string, data []byte) ([]byte, error) {
	switch contentType {
	case "image/jpeg":
		return data, nil
	case "image/png":
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding png image: %v", ErrInvalidDataURL, err)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("images: encoding png to jpeg: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported image type %s", ErrInvalidDataURL, contentType)
	}
}

// DecodeDataURL returns the JPEG contents of a PNG or JPEG data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	ct, data, err := ParseDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return ToJPEG(ct, data)
}

// RecipeImagePath returns the path of the main image of a recipe.
func RecipeImagePath(recipeID string) string {
	return fmt.Sprintf("recipes/%s/main-image.jpg", recipeID)
}

// WriteRecipeImage stores the JPEG main image of a recipe, replacing any
// previous one, and returns its URL.
func WriteRecipeImage(ctx context.Context, w Writer, recipeID string, jpg []byte) (string, error) {
	url, err := w.WriteFile(ctx, RecipeImagePath(recipeID), "image/jpeg", jpg)
	if err != nil {
		return "", fmt.Errorf("images: saving image of recipe %s: %w", recipeID, err)
	}
	return url, nil
}

// DeleteRecipeImage deletes the main image of a recipe if it has one.
func DeleteRecipeImage(ctx context.Context, w Writer, recipeID string) error {
	if err := w.DeleteFile(ctx, RecipeImagePath(recipeID)); err != nil {
		return fmt.Errorf("images: deleting image of recipe %s: %w", recipeID, err)
	}
	return nil
}
