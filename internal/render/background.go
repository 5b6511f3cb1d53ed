package render

import (
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	// Register decoders for the background formats we accept.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// BackgroundCache loads the reference image behind the map once and
// hands out the decoded result. Loading runs on its own goroutine;
// Image returns nil until the decode finishes, and the background
// layer skips the frame until then.
type BackgroundCache struct {
	mu      sync.Mutex
	img     image.Image
	source  string
	loading bool
}

func NewBackgroundCache() *BackgroundCache {
	return &BackgroundCache{}
}

// Image returns the decoded background, or nil while none is loaded.
func (c *BackgroundCache) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img
}

// Clear drops the cached image so the next Load fetches again.
func (c *BackgroundCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.img = nil
	c.source = ""
}

// Load fetches and decodes source, a file path or an http(s) URL, and
// returns immediately. done runs once the load attempt finishes, so the
// caller can refresh or unblock; failures are logged and leave the
// cache empty. Loading the source already cached is a no-op.
func (c *BackgroundCache) Load(source string, done func()) {
	if source == "" {
		return
	}

	c.mu.Lock()
	if c.loading || (c.img != nil && c.source == source) {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.source = source
	c.mu.Unlock()

	go func() {
		img, err := fetchImage(source)

		c.mu.Lock()
		c.loading = false
		if err == nil {
			c.img = img
		}
		c.mu.Unlock()

		if err != nil {
			log.Printf("background: %v", err)
		}
		if done != nil {
			done()
		}
	}()
}

var backgroundClient = &http.Client{Timeout: 30 * time.Second}

func fetchImage(source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := backgroundClient.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
		}
		img, _, err := image.Decode(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", source, err)
		}
		return img, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	return img, nil
}
