package contentful

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openshelf/catalogd/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEntries = `{
  "total": 3,
  "items": [
    {
      "sys": {"id": "entry-1"},
      "fields": {
        "name": "Apple Mi Watch",
        "description": "Smart watch",
        "price": 65.9,
        "category": "Smartwatch",
        "image": {"fields": {"file": {"url": "//images.ctfassets.net/watch.png"}}}
      }
    },
    {
      "sys": {"id": "entry-2"},
      "fields": {
        "category": "Misc"
      }
    },
    {
      "sys": {"id": "entry-3"},
      "fields": {
        "name": "Cable",
        "price": 3.5
      }
    }
  ]
}`

func testConfig(url string) config.ContentfulConfig {
	return config.ContentfulConfig{
		ApiUrl:      url,
		SpaceID:     "space-1",
		AccessToken: "token-1",
		Environment: "master",
		ContentType: "product",
	}
}

func TestFetchProductsMapsEntries(t *testing.T) {
	var gotPath, gotToken, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("access_token")
		gotType = r.URL.Query().Get("content_type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleEntries))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	records, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "/spaces/space-1/environments/master/entries", gotPath)
	assert.Equal(t, "token-1", gotToken)
	assert.Equal(t, "product", gotType)

	first := records[0]
	assert.Equal(t, "entry-1", first.ExternalID)
	assert.Equal(t, "Apple Mi Watch", first.Name)
	assert.Equal(t, "Smart watch", first.Description)
	require.NotNil(t, first.Price)
	assert.Equal(t, 65.9, *first.Price)
	assert.Equal(t, "Smartwatch", first.Category)
	assert.Equal(t, "https://images.ctfassets.net/watch.png", first.ImageURL)
	assert.False(t, first.IsDeleted)
}

func TestFetchProductsDefaultsMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleEntries))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	records, err := client.FetchProducts(context.Background())
	require.NoError(t, err)

	second := records[1]
	assert.Equal(t, "Unnamed Product", second.Name)
	assert.Nil(t, second.Price)
	assert.Empty(t, second.ImageURL)

	third := records[2]
	assert.Equal(t, "Cable", third.Name)
	assert.Empty(t, third.ImageURL)
}

func TestFetchProductsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.FetchProducts(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Error(), "Failed to fetch products from Contentful")
}

func TestFetchProductsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // closed up front, forces a connection failure

	client := NewClient(testConfig(srv.URL))
	_, err := client.FetchProducts(context.Background())
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.NotEmpty(t, fetchErr.Cause)
}
