package uploader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neutx/snap-and-win/internal/config"
)

func testCloudinaryConfig(baseURL string) config.CloudinaryConfig {
	return config.CloudinaryConfig{
		CloudName:      "democloud",
		APIKey:         "key123",
		APISecret:      "shh",
		UploadPreset:   "instagram_promotion",
		Folder:         "instagram_posts",
		BaseURL:        baseURL,
		MaxFileSize:    5000000,
		AllowedFormats: "jpg,jpeg,png,gif",
	}
}

func TestSignUploadRequest(t *testing.T) {
	c := NewCloudinary(testCloudinaryConfig("https://api.cloudinary.example"))
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	signed := c.SignUploadRequest(nil)

	assert.Equal(t, int64(1700000000), signed.Timestamp)
	assert.Equal(t, "democloud", signed.CloudName)
	assert.Equal(t, "key123", signed.APIKey)
	// The fixed preset is always part of the signed parameters.
	expected := signParams(map[string]string{
		"timestamp":     "1700000000",
		"upload_preset": "instagram_promotion",
	}, "shh")
	assert.Equal(t, expected, signed.Signature)
}

func TestSignUploadRequest_ExtraParams(t *testing.T) {
	c := NewCloudinary(testCloudinaryConfig("https://api.cloudinary.example"))
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	signed := c.SignUploadRequest(map[string]string{"folder": "instagram_posts"})

	expected := signParams(map[string]string{
		"timestamp":     "1700000000",
		"upload_preset": "instagram_promotion",
		"folder":        "instagram_posts",
	}, "shh")
	assert.Equal(t, expected, signed.Signature)
}

func TestStartUpload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1_1/democloud/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "key123", r.FormValue("api_key"))
		assert.Equal(t, "instagram_posts", r.FormValue("folder"))
		assert.NotEmpty(t, r.FormValue("signature"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "proof.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://res.cloudinary.example/democloud/image/upload/v1/instagram_posts/abc.jpg",
			"public_id":  "instagram_posts/abc",
		})
	}))
	defer srv.Close()

	c := NewCloudinary(testCloudinaryConfig(srv.URL))

	url, err := c.StartUpload(context.Background(), "proof.jpg", 1024, strings.NewReader("fake-image-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://"), "uploader must return a durable HTTPS URL")
}

func TestStartUpload_FileTooLarge(t *testing.T) {
	cfg := testCloudinaryConfig("https://api.cloudinary.example")
	c := NewCloudinary(cfg)

	_, err := c.StartUpload(context.Background(), "proof.jpg", cfg.MaxFileSize+1, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestStartUpload_UnsupportedFormat(t *testing.T) {
	c := NewCloudinary(testCloudinaryConfig("https://api.cloudinary.example"))

	for _, filename := range []string{"proof.pdf", "proof", "proof.JPG.exe"} {
		_, err := c.StartUpload(context.Background(), filename, 1024, strings.NewReader(""))
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "filename %q", filename)
	}
}

func TestStartUpload_UppercaseExtensionAllowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"secure_url": "https://cdn/x.png"})
	}))
	defer srv.Close()

	c := NewCloudinary(testCloudinaryConfig(srv.URL))

	_, err := c.StartUpload(context.Background(), "proof.PNG", 1024, strings.NewReader(""))
	assert.NoError(t, err)
}

func TestStartUpload_HostError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCloudinary(testCloudinaryConfig(srv.URL))

	_, err := c.StartUpload(context.Background(), "proof.jpg", 1024, strings.NewReader(""))
	assert.Error(t, err)
}

func TestEnsurePreset(t *testing.T) {
	var deleted, created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key123", user)
		assert.Equal(t, "shh", pass)

		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/v1_1/democloud/upload_presets/instagram_promotion":
			deleted = true
			w.WriteHeader(http.StatusNotFound) // nothing to delete is fine
		case r.Method == http.MethodPost && r.URL.Path == "/v1_1/democloud/upload_presets":
			created = true
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "instagram_promotion", body["name"])
			assert.Equal(t, true, body["unsigned"])
			assert.Equal(t, "instagram_posts", body["folder"])
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewCloudinary(testCloudinaryConfig(srv.URL))

	require.NoError(t, c.EnsurePreset(context.Background()))
	assert.True(t, deleted, "existing preset removed first")
	assert.True(t, created)
}

func TestEnsurePreset_CreateFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewCloudinary(testCloudinaryConfig(srv.URL))
	assert.Error(t, c.EnsurePreset(context.Background()))
}
