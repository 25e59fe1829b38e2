package contentful

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/openshelf/catalogd/config"
	"github.com/openshelf/catalogd/internal/domain"
	"go.uber.org/zap"
)

const fetchTimeout = 30 * time.Second

// FetchError reports an unreachable or non-success feed response.
type FetchError struct {
	Cause string
}

func (e *FetchError) Error() string {
	return "Failed to fetch products from Contentful: " + e.Cause
}

type entrySys struct {
	ID string `json:"id"`
}

type entryImage struct {
	Fields struct {
		File struct {
			URL string `json:"url"`
		} `json:"file"`
	} `json:"fields"`
}

type entryFields struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       *float64    `json:"price"`
	Category    string      `json:"category"`
	Image       *entryImage `json:"image"`
}

type entry struct {
	Sys    entrySys    `json:"sys"`
	Fields entryFields `json:"fields"`
}

type entriesResponse struct {
	Items []entry `json:"items"`
	Total int     `json:"total"`
}

// Client reads product entries from the Contentful delivery API.
type Client struct {
	cfg config.ContentfulConfig
}

func NewClient(cfg config.ContentfulConfig) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) entriesURL() string {
	return fmt.Sprintf("%s/spaces/%s/environments/%s/entries",
		c.cfg.ApiUrl, c.cfg.SpaceID, c.cfg.Environment)
}

// FetchProducts performs a single fetch attempt with a bounded timeout and
// maps the nested entry shape into flat product records.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.ProductData, error) {
	zap.L().Info("fetching products from Contentful", zap.String("space", c.cfg.SpaceID))

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var resp entriesResponse
	var code int
	err := gout.GET(c.entriesURL()).
		WithContext(ctx).
		SetQuery(gout.H{
			"access_token": c.cfg.AccessToken,
			"content_type": c.cfg.ContentType,
		}).
		SetHeader(gout.H{"Content-Type": "application/json"}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		zap.L().Error("contentful fetch failed", zap.Error(err))
		return nil, &FetchError{Cause: err.Error()}
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		zap.L().Error("contentful returned non-success status", zap.Int("status", code))
		return nil, &FetchError{Cause: fmt.Sprintf("unexpected status code %d", code)}
	}

	zap.L().Info("fetched products from Contentful", zap.Int("count", len(resp.Items)))

	records := make([]domain.ProductData, 0, len(resp.Items))
	for _, item := range resp.Items {
		records = append(records, mapEntry(item))
	}
	return records, nil
}

// mapEntry flattens a Contentful entry. The image URL is protocol-relative
// in delivery API responses, the https scheme is prefixed to make it absolute.
func mapEntry(e entry) domain.ProductData {
	name := e.Fields.Name
	if name == "" {
		name = "Unnamed Product"
	}

	var imageURL string
	if e.Fields.Image != nil && e.Fields.Image.Fields.File.URL != "" {
		imageURL = "https:" + e.Fields.Image.Fields.File.URL
	}

	return domain.ProductData{
		ExternalID:  e.Sys.ID,
		Name:        name,
		Description: e.Fields.Description,
		Price:       e.Fields.Price,
		Category:    e.Fields.Category,
		ImageURL:    imageURL,
		IsDeleted:   false,
	}
}
