package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/eduguide/eduguide-backend/utils"
)

// ImageAnalysis is what the detection service gives back, normalized.
// Demo marks results invented locally after a transport failure.
type ImageAnalysis struct {
	Count        int    `json:"count"`
	AnnotatedURL string `json:"annotated_url,omitempty"`
	Demo         bool   `json:"demo"`
}

// AnalyzeImage posts an image to the YOLO service and extracts a detection
// count. The service has gone through several response formats, so the count
// is looked up under every field name it has ever used. A transport failure
// degrades to a randomized demo count rather than an error.
func AnalyzeImage(file *multipart.FileHeader) (*ImageAnalysis, error) {
	baseURL := os.Getenv("YOLO_API_URL")
	if baseURL == "" {
		return demoAnalysis(), nil
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("image", file.Filename)
	if err != nil {
		return nil, err
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	if _, err := io.Copy(fw, src); err != nil {
		return nil, err
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/detect", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		// local dev frequently hits CORS/network failures here
		return demoAnalysis(), nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return demoAnalysis(), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image analysis failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("unparseable analysis response: %v", err)
	}

	analysis := &ImageAnalysis{Count: extractCount(payload)}
	var annotated string
	if raw, ok := payload["annotated_image"]; ok {
		_ = json.Unmarshal(raw, &annotated)
	}
	analysis.AnnotatedURL = rehostAnnotated(annotated)
	return analysis, nil
}

// rehostAnnotated copies the detection service's annotated image into our
// storage: the service serves it from a temp dir that does not survive a
// restart. Any failure falls back to the transient URL.
func rehostAnnotated(srcURL string) string {
	if srcURL == "" {
		return ""
	}
	resp, err := http.Get(srcURL)
	if err != nil {
		return srcURL
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return srcURL
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return srcURL
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	filename := fmt.Sprintf("annotated-%d.jpg", time.Now().UnixNano())

	stable, err := utils.UploadBytesToSupabase(data, "annotated", filename, contentType)
	if err != nil {
		return srcURL
	}
	return stable
}

// extractCount tries every field name the detection service has used.
func extractCount(payload map[string]json.RawMessage) int {
	for _, key := range []string{"Number of faces detected", "count", "num_faces", "faces"} {
		if raw, ok := payload[key]; ok {
			var n int
			if err := json.Unmarshal(raw, &n); err == nil {
				return n
			}
		}
	}
	for _, key := range []string{"face_boxes", "detections", "boxes"} {
		if raw, ok := payload[key]; ok {
			var arr []json.RawMessage
			if err := json.Unmarshal(raw, &arr); err == nil {
				return len(arr)
			}
		}
	}
	return 0
}

func demoAnalysis() *ImageAnalysis {
	return &ImageAnalysis{
		Count: rand.Intn(5) + 1,
		Demo:  true,
	}
}
