package httpadapter

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
	"github.com/kirillkom/sentiment-analyzer/internal/infrastructure/export"
)

const defaultExportFormat = "csv"

func (rt *Router) submitJob(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	job, err := rt.submitter.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeDomainError(w, r, "submit job", err)
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

func (rt *Router) getJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := bindJobID(w, r)
	if !ok {
		return
	}

	job, err := rt.jobs.GetByID(r.Context(), jobID)
	if err != nil {
		writeDomainError(w, r, "get job", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) listJobResults(w http.ResponseWriter, r *http.Request) {
	jobID, ok := bindJobID(w, r)
	if !ok {
		return
	}

	results, err := rt.jobs.ListResults(r.Context(), jobID)
	if err != nil {
		writeDomainError(w, r, "list job results", err)
		return
	}
	writeJSON(w, http.StatusOK, resultListResponse{
		Results: results,
		Summary: domain.Summarize(results),
	})
}

func (rt *Router) exportJobResults(w http.ResponseWriter, r *http.Request) {
	jobID, ok := bindJobID(w, r)
	if !ok {
		return
	}

	format := defaultExportFormat
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid format parameter: %v", err))
		return
	}

	exporter, err := rt.exports.Get(format)
	if err != nil {
		writeDomainError(w, r, "export job results", err)
		return
	}

	results, err := rt.jobs.ListResults(r.Context(), jobID)
	if err != nil {
		writeDomainError(w, r, "export job results", err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, results); err != nil {
		writeDomainError(w, r, "export job results", err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(exporter)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func bindJobID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var jobID string
	err := runtime.BindStyledParameterWithOptions("simple", "job_id", r.PathValue("job_id"), &jobID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || jobID == "" {
		writeError(w, http.StatusBadRequest, "job id is required")
		return "", false
	}
	return jobID, true
}
