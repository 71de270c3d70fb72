package paper

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xuci-prep/backend/internal/export"
	"github.com/xuci-prep/backend/internal/models"
	"github.com/xuci-prep/backend/internal/tagger"
)

type Handler struct {
	store   *Store
	service *Service
}

func NewHandler(store *Store, service *Service) *Handler {
	return &Handler{store: store, service: service}
}

// ── Usages ──────────────────────────────────────────────

func (h *Handler) CreateUsage(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if !req.Word.Valid() {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "empty_word must be one of the 18 glyphs"})
		return
	}
	if !models.ValidPartsOfSpeech[req.PartOfSpeech] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid part_of_speech"})
		return
	}
	if strings.TrimSpace(req.Action) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "action is required"})
		return
	}

	usage, err := h.store.CreateUsage(req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create usage"})
		return
	}
	writeJSON(w, http.StatusCreated, usage)
}

func (h *Handler) ListUsages(w http.ResponseWriter, r *http.Request) {
	filter, err := usageFilterFromQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	usages, err := h.store.ListUsages(filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list usages"})
		return
	}
	if usages == nil {
		usages = []models.EmptyWordAction{}
	}
	writeJSON(w, http.StatusOK, usages)
}

func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid usage ID"})
		return
	}

	usage, err := h.store.GetUsage(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Usage not found"})
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

func (h *Handler) UpdateUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid usage ID"})
		return
	}

	var req models.CreateUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !req.Word.Valid() || !models.ValidPartsOfSpeech[req.PartOfSpeech] || strings.TrimSpace(req.Action) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "empty_word, part_of_speech, and action are required"})
		return
	}

	if err := h.store.UpdateUsage(id, req); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update usage"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) DeleteUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid usage ID"})
		return
	}
	if err := h.store.DeleteUsage(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete usage"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ── Sentences ───────────────────────────────────────────

func (h *Handler) CreateSentence(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSentenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" || len(req.ActionIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "text and action_ids are required"})
		return
	}

	// Every bound usage must reference a word that occurs in the text.
	bindings := make([]Binding, 0, len(req.ActionIDs))
	for _, actionID := range req.ActionIDs {
		usage, err := h.store.GetUsage(actionID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Unknown usage %d", actionID)})
			return
		}
		matches := tagger.Tag(req.Text, []models.EmptyWord{usage.Word})
		if len(matches) == 0 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
				Error: fmt.Sprintf("Sentence does not contain %s", usage.Word.Glyph()),
			})
			return
		}
		bindings = append(bindings, Binding{ActionID: actionID, Position: matches[0].Position})
	}

	sentence, err := h.store.CreateSentence(r.Context(), req.Text, req.Tags, bindings)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create sentence"})
		return
	}
	writeJSON(w, http.StatusCreated, sentence)
}

func (h *Handler) ListSentences(w http.ResponseWriter, r *http.Request) {
	var word *models.EmptyWord
	if g := r.URL.Query().Get("empty_word"); g != "" {
		parsed, ok := models.ParseGlyph(g)
		if !ok {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "unknown empty_word"})
			return
		}
		word = &parsed
	}

	sentences, err := h.store.ListSentences(word)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list sentences"})
		return
	}
	if sentences == nil {
		sentences = []models.ExampleSentence{}
	}
	writeJSON(w, http.StatusOK, sentences)
}

func (h *Handler) DeleteSentence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid sentence ID"})
		return
	}
	if err := h.store.DeleteSentence(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete sentence"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DetectWords tags raw text without persisting anything, for the binding UI.
func (h *Handler) DetectWords(w http.ResponseWriter, r *http.Request) {
	var req models.DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	matches := tagger.Tag(req.Text, models.AllEmptyWords())
	resp := models.DetectResponse{Matches: []models.DetectedWord{}}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, models.DetectedWord{Position: m.Position, Word: m.Word})
	}
	writeJSON(w, http.StatusOK, resp)
}

// BatchSentences imports raw lines: each line is tagged, and for every
// detected word with at least one defined usage the line becomes an example
// sentence bound to that word's first usage. Lines with nothing usable are
// reported back, not failed.
func (h *Handler) BatchSentences(w http.ResponseWriter, r *http.Request) {
	var req models.BatchSentencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp := models.BatchSentencesResponse{}
	for _, line := range req.Lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var bindings []Binding
		for _, word := range tagger.Words(tagger.Tag(line, models.AllEmptyWords())) {
			usages, err := h.store.ListUsages(models.UsageFilter{Words: []models.EmptyWord{word}})
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to look up usages"})
				return
			}
			if len(usages) == 0 {
				continue
			}
			matches := tagger.Tag(line, []models.EmptyWord{word})
			bindings = append(bindings, Binding{ActionID: usages[0].ID, Position: matches[0].Position})
		}

		if len(bindings) == 0 {
			resp.Skipped = append(resp.Skipped, line)
			continue
		}
		if _, err := h.store.CreateSentence(r.Context(), line, req.Tags, bindings); err != nil {
			resp.Skipped = append(resp.Skipped, line)
			continue
		}
		resp.Added++
	}

	writeJSON(w, http.StatusOK, resp)
}

// ── Papers ──────────────────────────────────────────────

func (h *Handler) AssemblePaper(w http.ResponseWriter, r *http.Request) {
	var req models.AssemblePaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "title is required"})
		return
	}
	if req.Count <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "count must be positive"})
		return
	}
	for _, p := range req.PartsOfSpeech {
		if !models.ValidPartsOfSpeech[p] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid part_of_speech"})
			return
		}
	}

	resp, err := h.service.Assemble(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrPaperGeneration) {
			writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Assembly failed: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := h.service.ListPapers()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list papers"})
		return
	}
	if papers == nil {
		papers = []models.PaperSummary{}
	}
	writeJSON(w, http.StatusOK, papers)
}

func (h *Handler) GetPaper(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid paper ID"})
		return
	}

	paper, err := h.service.GetPaper(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Paper not found"})
		return
	}
	writeJSON(w, http.StatusOK, paper)
}

func (h *Handler) DeletePaper(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid paper ID"})
		return
	}
	if err := h.service.DeletePaper(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete paper"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ExportPaper renders a paper as a downloadable text document under the
// three visibility toggles.
func (h *Handler) ExportPaper(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid paper ID"})
		return
	}

	p, err := h.service.GetPaper(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Paper not found"})
		return
	}

	query := r.URL.Query()
	opts := export.Options{
		ShowChoices:        boolQueryParam(query, "choices"),
		ShowAnswer:         boolQueryParam(query, "answer"),
		HighlightEmptyWord: boolQueryParam(query, "highlight"),
	}

	doc, err := export.Export(p, opts)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Title+".txt"))
	if err := (export.TextWriter{}).Write(doc, w); err != nil {
		// Headers already went out; the broken download is all the client sees.
		log.Printf("WARN: writing paper %d export: %v", id, err)
	}
}

// ── Helpers ─────────────────────────────────────────────

func usageFilterFromQuery(query url.Values) (models.UsageFilter, error) {
	var filter models.UsageFilter
	for _, g := range query["empty_word"] {
		word, ok := models.ParseGlyph(g)
		if !ok {
			return filter, fmt.Errorf("unknown empty_word %q", g)
		}
		filter.Words = append(filter.Words, word)
	}
	for _, p := range query["part_of_speech"] {
		pos := models.PartOfSpeech(p)
		if !models.ValidPartsOfSpeech[pos] {
			return filter, fmt.Errorf("invalid part_of_speech %q", p)
		}
		filter.PartsOfSpeech = append(filter.PartsOfSpeech, pos)
	}
	return filter, nil
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func boolQueryParam(query url.Values, key string) bool {
	v := query.Get(key)
	return v == "1" || v == "true"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
