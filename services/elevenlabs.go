package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
)

var elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// defaultElevenVoice is "Rachel", the stock voice used when the user has no
// preference saved.
const defaultElevenVoice = "21m00Tcm4TlvDq8ikWAM"

// ElevenLabsSynthesize calls the ElevenLabs TTS API and returns MP3 bytes.
// This is the secondary speech path; Google TTS is the primary one.
func ElevenLabsSynthesize(text, voiceID string) ([]byte, error) {
	apiKey := os.Getenv("ELEVENLABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY is not set")
	}
	if voiceID == "" {
		voiceID = defaultElevenVoice
	}

	payload, err := json.Marshal(map[string]interface{}{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", elevenLabsBaseURL, voiceID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", apiKey)
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ElevenLabs request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// ElevenLabsTranscribe turns uploaded audio into text with the scribe model.
// The language code defaults to English the way the frontend always sent it.
func ElevenLabsTranscribe(file *multipart.FileHeader, languageCode string) (string, error) {
	apiKey := os.Getenv("ELEVENLABS_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("ELEVENLABS_API_KEY is not set")
	}
	if languageCode == "" {
		languageCode = "eng"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	if _, err := io.Copy(fw, src); err != nil {
		return "", err
	}
	writer.WriteField("model_id", "scribe_v1")
	writer.WriteField("language_code", languageCode)
	writer.WriteField("tag_audio_events", "true")
	writer.WriteField("diarize", "true")
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, elevenLabsBaseURL+"/speech-to-text", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ElevenLabs request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ElevenLabs error %d: %s", resp.StatusCode, string(respBody))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("unparseable transcription response: %v", err)
	}
	return out.Text, nil
}
