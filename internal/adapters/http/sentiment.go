package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

type analyzeRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type batchRequest struct {
	Items []analyzeRequest `json:"items"`
}

type resultListResponse struct {
	Results []domain.SentimentResult `json:"results"`
	Summary domain.Summary           `json:"summary"`
}

func (rt *Router) analyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeDomainError(w, r, "analyze text", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	writeJSON(w, http.StatusOK, rt.analyzer.Analyze(r.Context(), req.Text, req.Source))
}

func (rt *Router) analyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeDomainError(w, r, "analyze batch", err)
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items are required")
		return
	}

	items := make([]domain.BatchItem, 0, len(req.Items))
	for i, item := range req.Items {
		if strings.TrimSpace(item.Text) == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("items[%d].text is required", i))
			return
		}
		items = append(items, domain.BatchItem{Text: item.Text, Source: item.Source})
	}

	results, err := rt.analyzer.AnalyzeBatch(r.Context(), items)
	if err != nil {
		writeDomainError(w, r, "analyze batch", domain.WrapError(domain.ErrTemporary, "analyze batch", err))
		return
	}

	writeJSON(w, http.StatusOK, resultListResponse{
		Results: results,
		Summary: domain.Summarize(results),
	})
}

func decodeJSONBody(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return domain.WrapError(domain.ErrInvalidInput, "decode request", errors.New("invalid json"))
	}
	return nil
}
