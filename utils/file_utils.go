package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
)

var (
	// Allowed image extensions
	allowedImageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
	// Allowed video extensions
	allowedVideoExts = map[string]bool{
		".mp4":  true,
		".mov":  true,
		".avi":  true,
		".webm": true,
	}
)

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	// Remove any path components
	filename = filepath.Base(filename)
	// Remove any non-alphanumeric characters except for dots and hyphens
	reg := regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	return reg.ReplaceAllString(filename, "")
}

// ValidateFileType checks if the file extension is allowed for the given media type
func ValidateFileType(filename, mediaType string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	switch mediaType {
	case "image":
		if !allowedImageExts[ext] {
			return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif, webp")
		}
	case "video":
		if !allowedVideoExts[ext] {
			return fmt.Errorf("unsupported video format. Allowed formats: mp4, mov, avi, webm")
		}
	default:
		return fmt.Errorf("invalid media type. Must be 'image' or 'video'")
	}
	return nil
}

// InitializeStorage creates necessary directories for file storage
func InitializeStorage() error {
	if err := os.MkdirAll(uploadBaseDir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %v", err)
	}

	dirs := []string{
		filepath.Join(uploadBaseDir, "listings"),
		filepath.Join(uploadBaseDir, "thumbnails"),
		filepath.Join(uploadBaseDir, "videos"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// SaveListingPhoto stores a listing photo under uploads/listings, writes a
// 320px browse thumbnail next to it, and returns both URLs.
func SaveListingPhoto(fileData []byte, filename string) (photoURL, thumbnailURL string, err error) {
	if len(fileData) > maxFileSize {
		return "", "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	cleanName := cleanFilename(filename)
	if err := ValidateFileType(cleanName, "image"); err != nil {
		return "", "", err
	}

	if err := InitializeStorage(); err != nil {
		return "", "", err
	}

	fullPath := filepath.Join(uploadBaseDir, "listings", cleanName)
	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write file: %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(fileData))
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %v", err)
	}

	// Resize to max width of 320px while maintaining aspect ratio
	resized := imaging.Resize(img, 320, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return "", "", fmt.Errorf("failed to encode thumbnail: %v", err)
	}

	thumbName := strings.TrimSuffix(cleanName, filepath.Ext(cleanName)) + ".jpg"
	thumbPath := filepath.Join(uploadBaseDir, "thumbnails", thumbName)
	if err := os.WriteFile(thumbPath, buf.Bytes(), 0644); err != nil {
		return "", "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	photoURL = fmt.Sprintf("%s/listings/%s", baseURL, cleanName)
	thumbnailURL = fmt.Sprintf("%s/thumbnails/%s", baseURL, thumbName)
	return photoURL, thumbnailURL, nil
}

// SaveVideoTour stores a video walkthrough under uploads/videos and returns its URL
func SaveVideoTour(fileData []byte, filename string) (string, error) {
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	cleanName := cleanFilename(filename)
	if err := ValidateFileType(cleanName, "video"); err != nil {
		return "", err
	}

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(uploadBaseDir, "videos", cleanName)
	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %v", fullPath, err)
	}

	return fmt.Sprintf("%s/videos/%s", baseURL, cleanName), nil
}

// GenerateVideoPoster extracts a poster frame from a video tour and saves it locally
func GenerateVideoPoster(videoURL string) (string, error) {
	if err := InitializeStorage(); err != nil {
		return "", err
	}

	// Extract video path from URL
	videoPath := strings.TrimPrefix(videoURL, baseURL+"/")
	fullVideoPath := filepath.Join(uploadBaseDir, videoPath)

	tempDir := os.TempDir()
	posterPath := filepath.Join(tempDir, "poster.jpg")

	// Grab the frame at one second in
	err := ffmpeg.Input(fullVideoPath).
		Output(posterPath, ffmpeg.KwArgs{"vframes": 1, "ss": "00:00:01"}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to extract poster frame: %v", err)
	}
	defer os.Remove(posterPath)

	posterData, err := os.ReadFile(posterPath)
	if err != nil {
		return "", fmt.Errorf("failed to read poster file: %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(posterData))
	if err != nil {
		return "", fmt.Errorf("failed to decode poster: %v", err)
	}

	// Resize to max width of 320px while maintaining aspect ratio
	resized := imaging.Resize(img, 320, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode poster: %v", err)
	}

	videoFilename := filepath.Base(videoPath)
	posterFilename := fmt.Sprintf("thumbnails/%s.jpg", strings.TrimSuffix(videoFilename, filepath.Ext(videoFilename)))
	fullPosterPath := filepath.Join(uploadBaseDir, posterFilename)

	if err := os.WriteFile(fullPosterPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save poster: %v", err)
	}

	return fmt.Sprintf("%s/%s", baseURL, posterFilename), nil
}

// ServeFiles handles serving uploaded files
func ServeFiles(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, baseURL)
	fullPath := filepath.Join(uploadBaseDir, path)

	info, err := os.Stat(fullPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Don't allow directory listing
	if info.IsDir() {
		http.NotFound(w, r)
		return
	}

	// Set cache headers
	w.Header().Set("Cache-Control", "public, max-age=31536000") // Cache for 1 year
	w.Header().Set("Expires", time.Now().AddDate(1, 0, 0).Format(time.RFC1123))

	http.ServeFile(w, r, fullPath)
}
