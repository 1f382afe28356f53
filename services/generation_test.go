package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeAssignmentForm() *GenerationForm {
	return &GenerationForm{
		Department:        "CS",
		Subject:           "Operating Systems",
		Class:             "CS-301",
		DueDate:           "2026-09-15",
		AssignmentNo:      "2",
		QuizNo:            "1",
		Points:            "20",
		NumConceptual:     "2",
		NumTheoretical:    "2",
		NumScenario:       "1",
		DifficultyLevel:   "medium",
		NumberOfQuestions: "5",
	}
}

func TestValidateFormNamesEveryMissingField(t *testing.T) {
	form := &GenerationForm{Department: "CS", Subject: "OS"}

	err := ValidateForm(models.KindAssignment, form)
	require.Error(t, err)

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{
		"class", "due_date", "assignment_no", "points",
		"num_conceptual", "num_theoretical", "num_scenario",
		"difficulty_level", "number_of_questions",
	}, missing.Fields)
	// every field appears in the message, not just the first
	for _, f := range missing.Fields {
		assert.Contains(t, err.Error(), f)
	}
}

func TestValidateFormPerKind(t *testing.T) {
	form := completeAssignmentForm()
	assert.NoError(t, ValidateForm(models.KindAssignment, form))
	assert.NoError(t, ValidateForm(models.KindQuiz, form))
	assert.NoError(t, ValidateForm(models.KindExam, form))

	examOnly := &GenerationForm{Department: "CS", Subject: "OS", Class: "CS-301"}
	assert.NoError(t, ValidateForm(models.KindExam, examOnly))
	assert.Error(t, ValidateForm(models.KindQuiz, examOnly))
}

func TestValidateFormRejectsUnknownKind(t *testing.T) {
	assert.Error(t, ValidateForm(models.GenerationKind("essay"), completeAssignmentForm()))
}

func testFileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestGeneratePageContentDiagnostic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`KeyError: 'page_content' in pipeline stage 2`))
	}))
	defer server.Close()

	client := &GenerationClient{BaseURL: server.URL, HTTP: server.Client()}
	file := testFileHeader(t, "notes.txt", "some document content")

	_, err := client.Generate(models.KindAssignment, completeAssignmentForm(), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document processing failed")
	assert.NotContains(t, err.Error(), "500")
}

func TestGenerateSurfacesRawErrorOtherwise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream model unavailable`))
	}))
	defer server.Close()

	client := &GenerationClient{BaseURL: server.URL, HTTP: server.Client()}
	file := testFileHeader(t, "notes.txt", "some document content")

	_, err := client.Generate(models.KindAssignment, completeAssignmentForm(), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream model unavailable")
}

func TestGenerateNormalizesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "CS", r.FormValue("department"))
		assert.Equal(t, "/generate_assignment", r.URL.Path)
		w.Write([]byte(`{"questions": ["What is a mutex?", "Explain paging."]}`))
	}))
	defer server.Close()

	client := &GenerationClient{BaseURL: server.URL, HTTP: server.Client()}
	file := testFileHeader(t, "notes.txt", "some document content")

	items, err := client.Generate(models.KindAssignment, completeAssignmentForm(), file)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "What is a mutex?", items[0].Question)
}

func TestGenerateEmptyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"questions": []}`))
	}))
	defer server.Close()

	client := &GenerationClient{BaseURL: server.URL, HTTP: server.Client()}
	file := testFileHeader(t, "notes.txt", "some document content")

	_, err := client.Generate(models.KindAssignment, completeAssignmentForm(), file)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestArtifactURL(t *testing.T) {
	client := &GenerationClient{BaseURL: "http://gen.local", HTTP: http.DefaultClient}

	url := client.ArtifactURL("quiz_solution_view", map[string]string{"quiz_no": "3", "class": "CS-301"})
	assert.Contains(t, url, "http://gen.local/quiz_solution_view?")
	assert.Contains(t, url, "quiz_no=3")
	assert.Contains(t, url, "class=CS-301")

	bare := client.ArtifactURL("quiz_view", nil)
	assert.Equal(t, "http://gen.local/quiz_view", bare)
}

func TestDownloadArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("assignment_no"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	client := &GenerationClient{BaseURL: server.URL, HTTP: server.Client()}
	data, contentType, err := client.DownloadArtifact("assignment_download", map[string]string{"assignment_no": "2"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "deadline exceeded" }
func (timeoutErr) Timeout() bool { return true }

func TestIsTimeoutUnwrapsNestedErrors(t *testing.T) {
	assert.True(t, isTimeout(timeoutErr{}))
	assert.True(t, isTimeout(fmt.Errorf("request failed: %w", timeoutErr{})))
	assert.True(t, isTimeout(&url.Error{Op: "Post", URL: "http://gen.local", Err: timeoutErr{}}))
	assert.False(t, isTimeout(fmt.Errorf("connection refused")))
	assert.False(t, isTimeout(nil))
}

func TestExamTimeoutIsTookTooLong(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"questions": ["late"]}`))
	}))
	defer server.Close()

	client := &GenerationClient{BaseURL: server.URL, HTTP: &http.Client{}, ExamTimeout: 30 * time.Millisecond}
	examForm := &GenerationForm{Department: "CS", Subject: "OS", Class: "CS-301"}
	file := testFileHeader(t, "notes.txt", "some document content")

	_, err := client.Generate(models.KindExam, examForm, file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "took too long")
}

func TestNonExamPathHasNoTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{"questions": ["What is a mutex?"]}`))
	}))
	defer server.Close()

	client := &GenerationClient{BaseURL: server.URL, HTTP: &http.Client{}, ExamTimeout: 30 * time.Millisecond}
	file := testFileHeader(t, "notes.txt", "some document content")

	items, err := client.Generate(models.KindAssignment, completeAssignmentForm(), file)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAtoiOrZero(t *testing.T) {
	assert.Equal(t, 5, atoiOrZero("5"))
	assert.Equal(t, 12, atoiOrZero(" 12"))
	assert.Equal(t, 0, atoiOrZero("abc"))
	assert.Equal(t, 0, atoiOrZero(""))
}
