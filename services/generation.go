package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/eduguide/eduguide-backend/models"
)

// ExamTimeout is the client-side cap on the exam/practice path. On expiry
// the caller gets a "took too long" error, never an automatic retry.
const ExamTimeout = 60 * time.Second

// GenerationForm carries the user-entered fields merged with the file into
// one multipart request.
type GenerationForm struct {
	Department        string `form:"department" json:"department"`
	Subject           string `form:"subject" json:"subject"`
	Class             string `form:"class" json:"class"`
	DueDate           string `form:"due_date" json:"due_date"`
	AssignmentNo      string `form:"assignment_no" json:"assignment_no"`
	QuizNo            string `form:"quiz_no" json:"quiz_no"`
	Points            string `form:"points" json:"points"`
	NumConceptual     string `form:"num_conceptual" json:"num_conceptual"`
	NumTheoretical    string `form:"num_theoretical" json:"num_theoretical"`
	NumScenario       string `form:"num_scenario" json:"num_scenario"`
	DifficultyLevel   string `form:"difficulty_level" json:"difficulty_level"`
	NumberOfQuestions string `form:"number_of_questions" json:"number_of_questions"`
}

// requiredFields lists what each generation kind must carry.
var requiredFields = map[models.GenerationKind][]string{
	models.KindAssignment: {
		"department", "subject", "class", "due_date", "assignment_no",
		"points", "num_conceptual", "num_theoretical", "num_scenario",
		"difficulty_level", "number_of_questions",
	},
	models.KindQuiz: {
		"department", "subject", "class", "due_date", "quiz_no",
		"points", "num_conceptual", "num_theoretical", "num_scenario",
		"difficulty_level", "number_of_questions",
	},
	models.KindExam: {"department", "subject", "class"},
}

func (f *GenerationForm) fieldMap() map[string]string {
	return map[string]string{
		"department":          f.Department,
		"subject":             f.Subject,
		"class":               f.Class,
		"due_date":            f.DueDate,
		"assignment_no":       f.AssignmentNo,
		"quiz_no":             f.QuizNo,
		"points":              f.Points,
		"num_conceptual":      f.NumConceptual,
		"num_theoretical":     f.NumTheoretical,
		"num_scenario":        f.NumScenario,
		"difficulty_level":    f.DifficultyLevel,
		"number_of_questions": f.NumberOfQuestions,
	}
}

// MissingFieldsError names every absent field at once, not just the first.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ValidateForm checks every required field for the kind and aggregates all
// absences into a single error.
func ValidateForm(kind models.GenerationKind, form *GenerationForm) error {
	required, ok := requiredFields[kind]
	if !ok {
		return fmt.Errorf("unknown generation kind %q", kind)
	}
	values := form.fieldMap()
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// TypeCountsFromForm reads the per-type distribution, treating unparseable
// values as zero.
func TypeCountsFromForm(form *GenerationForm) TypeCounts {
	return TypeCounts{
		Conceptual:  atoiOrZero(form.NumConceptual),
		Theoretical: atoiOrZero(form.NumTheoretical),
		Scenario:    atoiOrZero(form.NumScenario),
	}
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// GenerationClient talks to the external question-generation service.
type GenerationClient struct {
	BaseURL     string
	HTTP        *http.Client
	ExamTimeout time.Duration
}

func NewGenerationClient() *GenerationClient {
	return &GenerationClient{
		BaseURL:     os.Getenv("GENERATION_API_URL"),
		HTTP:        &http.Client{},
		ExamTimeout: ExamTimeout,
	}
}

var kindEndpoints = map[models.GenerationKind]string{
	models.KindAssignment: "/generate_assignment",
	models.KindQuiz:       "/generate_quiz",
	models.KindExam:       "/generate_exam",
}

// Generate validates the form, posts the file and fields as multipart, and
// normalizes the response. The exam path gets the 60s timeout.
func (g *GenerationClient) Generate(kind models.GenerationKind, form *GenerationForm, file *multipart.FileHeader) ([]models.GeneratedQuestion, error) {
	if err := ValidateForm(kind, form); err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fw, err := writer.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %v", err)
	}
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()
	if _, err := io.Copy(fw, src); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %v", err)
	}

	for name, value := range form.fieldMap() {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %v", name, err)
		}
	}
	writer.Close()

	endpoint, ok := kindEndpoints[kind]
	if !ok {
		return nil, fmt.Errorf("unknown generation kind %q", kind)
	}
	if g.BaseURL == "" {
		return nil, fmt.Errorf("GENERATION_API_URL is not set")
	}

	req, err := http.NewRequest(http.MethodPost, g.BaseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := g.HTTP
	if kind == models.KindExam {
		timed := *client
		timed.Timeout = g.ExamTimeout
		if timed.Timeout == 0 {
			timed.Timeout = ExamTimeout
		}
		client = &timed
	}

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("generation took too long, please try again")
		}
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Known upstream defect: a traceback mentioning page_content means
		// the service choked on the extracted document, not on our request.
		if strings.Contains(string(respBody), "page_content") {
			return nil, fmt.Errorf("document processing failed on the generation service, please re-upload the file")
		}
		return nil, fmt.Errorf("generation failed (%d): %s", resp.StatusCode, string(respBody))
	}

	items, err := Normalize(respBody, TypeCountsFromForm(form))
	if err != nil {
		return nil, err
	}
	return items, nil
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	for e := err; e != nil; {
		if t, ok := e.(timeouter); ok && t.Timeout() {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		e = u.Unwrap()
	}
	return false
}

// ArtifactURL returns the view URL for a generated PDF artifact. View is a
// plain URL the client opens directly; downloads stream through
// DownloadArtifact instead.
func (g *GenerationClient) ArtifactURL(artifact string, params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	u := g.BaseURL + "/" + artifact
	if encoded := values.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// DownloadArtifact fetches a generated PDF as a blob for the caller to save.
func (g *GenerationClient) DownloadArtifact(artifact string, params map[string]string) ([]byte, string, error) {
	resp, err := g.HTTP.Get(g.ArtifactURL(artifact, params))
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch artifact: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("artifact fetch failed (%d): %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read artifact: %v", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return data, contentType, nil
}
