package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_Analyze(t *testing.T) {
	var gotWeight, gotMaterial, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotWeight = r.FormValue("weight")
		gotMaterial = r.FormValue("material_type")

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		file.Close()
		gotFilename = header.Filename

		json.NewEncoder(w).Encode(AnalysisResult{
			Sherds: []DetectedSherd{
				{SherdID: "det-1", Weight: 5.25, TypePrediction: "rim", QualificationPrediction: "its"},
				{SherdID: "det-2", Weight: 5.25, TypePrediction: "base", QualificationPrediction: "unknown"},
			},
			AnnotatedImage: "aGVsbG8=",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	result, err := client.Analyze(context.Background(), AnalyzeRequest{
		ImageName:    "IMG_0042.HEIC",
		Image:        strings.NewReader("fake image bytes"),
		TotalWeight:  10.5,
		MaterialType: "fine-ware",
	})
	require.NoError(t, err)
	require.Len(t, result.Sherds, 2)
	require.Equal(t, "rim", result.Sherds[0].TypePrediction)
	require.Equal(t, "aGVsbG8=", result.AnnotatedImage)

	require.Equal(t, "10.5", gotWeight)
	require.Equal(t, "fine-ware", gotMaterial)
	require.Equal(t, "photo.heic", gotFilename)
}

func TestClient_AnalyzeUnsupportedMaterial(t *testing.T) {
	client := NewClient("http://unused", 0, nil)
	for _, mt := range []string{"amphora", "cooking-ware", "lamp", ""} {
		_, err := client.Analyze(context.Background(), AnalyzeRequest{
			Image:        strings.NewReader("x"),
			MaterialType: mt,
		})
		require.ErrorIs(t, err, ErrUnsupportedMaterial, "material %q", mt)
	}
}

func TestClient_AnalyzeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	_, err := client.Analyze(context.Background(), AnalyzeRequest{
		Image:        strings.NewReader("x"),
		MaterialType: "coarse-ware",
	})

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	require.Equal(t, http.StatusServiceUnavailable, svcErr.Status)
	require.Contains(t, svcErr.Body, "model not loaded")
}

func TestClient_AnalyzeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond, nil)
	_, err := client.Analyze(context.Background(), AnalyzeRequest{
		Image:        strings.NewReader("x"),
		MaterialType: "fine-ware",
	})
	require.ErrorIs(t, err, ErrTimeout)
}

func TestImageExt(t *testing.T) {
	require.Equal(t, ".jpg", imageExt(""))
	require.Equal(t, ".jpg", imageExt("photo"))
	require.Equal(t, ".png", imageExt("scan.PNG"))
	require.Equal(t, ".jpeg", imageExt("a/b/c.jpeg"))
}
