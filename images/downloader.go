package images

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// Downloader caches promotion thumbnails under a local images directory so
// they can be served from GitHub Pages instead of hotlinking the source CDN.
type Downloader struct {
	outputDir string
	userAgent string
	http      *http.Client
}

func NewDownloader(outputDir, userAgent string) *Downloader {
	return &Downloader{
		outputDir: outputDir,
		userAgent: userAgent,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Download fetches the image at imageURL and stores it as <id>.<ext> in the
// output directory. Already-cached images are not fetched again. Returns the
// local path, or an error the caller may treat as non-fatal.
func (d *Downloader) Download(imageURL, id string) (string, error) {
	if imageURL == "" {
		return "", fmt.Errorf("empty image URL for promotion %s", id)
	}

	filename := fmt.Sprintf("%s.%s", id, Extension(imageURL))
	outputPath := filepath.Join(d.outputDir, filename)

	if _, err := os.Stat(outputPath); err == nil {
		log.WithFields(log.Fields{
			"path": outputPath,
		}).Debug("Image already cached")
		return outputPath, nil
	}

	if err := os.MkdirAll(d.outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating image dir %s: %w", d.outputDir, err)
	}

	log.WithFields(log.Fields{
		"url": imageURL,
	}).Info("Downloading image")

	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building image request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/svg+xml,image/*;q=0.8,*/*;q=0.5")

	resp, err := d.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading image from %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading image from %s: unexpected status %d", imageURL, resp.StatusCode)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("creating image file %s: %w", outputPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing image file %s: %w", outputPath, err)
	}

	return outputPath, nil
}

// Extension extracts the file extension from an image URL, restricted to
// common image formats. Anything unrecognised becomes jpg.
func Extension(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "jpg"
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(parsed.Path), "."))
	if !allowedExtensions[ext] {
		return "jpg"
	}
	return ext
}

// PagesURL maps a local image path to the public URL it will be served from.
// localPath is expected to live under pagesDir; if it does not, only the
// filename is used.
func PagesURL(localPath, pagesDir, baseURL string) string {
	rel, err := filepath.Rel(pagesDir, localPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Join("images", filepath.Base(localPath))
	}
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(baseURL, "/"), filepath.ToSlash(rel))
}
