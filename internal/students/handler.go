package students

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuci-prep/backend/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "name is required"})
		return
	}

	student, err := h.store.CreateStudent(strings.TrimSpace(req.Name))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create student"})
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListStudents()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list students"})
		return
	}
	if list == nil {
		list = []models.Student{}
	}
	writeJSON(w, http.StatusOK, list)
}

// SubmitAnswer records an answer to a paper question. Correctness is the id
// comparison against the question's correct usage.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question ID"})
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.StudentID == 0 || req.ActionID == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "student_id and action_id are required"})
		return
	}

	correctID, err := h.store.QuestionCorrectActionID(questionID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
		return
	}

	answer := models.Answer{
		StudentID:  req.StudentID,
		QuestionID: questionID,
		ActionID:   req.ActionID,
		IsCorrect:  req.ActionID == correctID,
		AnsweredAt: time.Now().UTC(),
	}
	if err := h.store.SaveAnswer(&answer); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save answer"})
		return
	}

	writeJSON(w, http.StatusOK, models.SubmitAnswerResponse{
		Correct:         answer.IsCorrect,
		CorrectActionID: correctID,
	})
}

func (h *Handler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid student ID"})
		return
	}

	answers, err := h.store.ListAnswers(studentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list answers"})
		return
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	writeJSON(w, http.StatusOK, answers)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
