package ui

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mvextras/app"
	"mvextras/domain/dataset"
	"mvextras/domain/stats"
	"mvextras/internal/errors"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 50 * 1024 * 1024

func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": errors.GetCode(err), "message": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if ds, err := s.Dataset(); err == nil {
		body["dataset"] = ds.DisplayName()
		body["fingerprint"] = s.session.FingerprintHex()
	}
	c.JSON(http.StatusOK, body)
}

// datasetRequest is the wire form of a dataset upload
type datasetRequest struct {
	Name       string              `json:"name" binding:"required"`
	Title      string              `json:"title"`
	Attributes []dataset.Attribute `json:"attributes" binding:"required"`
	Cases      []dataset.RawCase   `json:"cases"`
}

func (s *Server) handlePutDataset(c *gin.Context) {
	var req datasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	if len(req.Attributes) == 0 {
		s.respondError(c, errors.ValidationError("dataset has no attributes"))
		return
	}

	ds := dataset.NewDataset(req.Name, req.Attributes, req.Cases, s.policy)
	ds.Title = req.Title
	s.SetDataset(ds)
	c.JSON(http.StatusOK, gin.H{
		"name":       ds.Name,
		"title":      ds.DisplayName(),
		"attributes": len(ds.Attributes),
		"cases":      ds.CaseCount(),
	})
}

func (s *Server) handleFileUpload(c *gin.Context) {
	header, err := c.FormFile("dataset")
	if err != nil {
		s.respondError(c, errors.InvalidInput("no file uploaded"))
		return
	}
	if header.Size > maxUploadSize {
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("file size (%.1f MB) exceeds the 50MB limit", float64(header.Size)/(1024*1024))))
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".csv" {
		s.respondError(c, errors.InvalidInput("only .xlsx and .csv files are allowed"))
		return
	}

	dir, err := os.MkdirTemp("", "mvextras-upload-")
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to stage upload"))
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(header.Filename))
	if err := c.SaveUploadedFile(header, path); err != nil {
		s.respondError(c, errors.Wrap(err, "failed to stage upload"))
		return
	}

	ds, err := s.reader.ReadDataset(c.Request.Context(), path, s.policy)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.SetDataset(ds)
	c.JSON(http.StatusOK, gin.H{
		"name":       ds.Name,
		"title":      ds.DisplayName(),
		"attributes": len(ds.Attributes),
		"cases":      ds.CaseCount(),
	})
}

func (s *Server) handleAttributes(c *gin.Context) {
	ds, err := s.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}
	profiles := make([]stats.AttributeProfile, len(ds.Attributes))
	for i, attr := range ds.Attributes {
		profiles[i] = s.engine.Profile(ds, attr)
		profiles[i].Hidden = s.session.IsHidden(attr.Name)
	}
	c.JSON(http.StatusOK, gin.H{"dataset": ds.DisplayName(), "attributes": profiles})
}

type visibilityRequest struct {
	Hidden *bool `json:"hidden" binding:"required"`
}

func (s *Server) handleVisibility(c *gin.Context) {
	ds, err := s.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}
	name := c.Param("name")
	if _, err := ds.Attribute(name); err != nil {
		s.respondError(c, err)
		return
	}
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	s.session.SetHidden(name, *req.Hidden)
	c.JSON(http.StatusOK, gin.H{"name": name, "hidden": *req.Hidden})
}

// associationResponse carries a computed table and, when saving it failed, the reason
type associationResponse struct {
	*app.AssociationTable
	Warning string `json:"warning,omitempty"`
}

func (s *Server) handleAssociations(c *gin.Context) {
	ds, err := s.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}
	table, err := s.associations.ComputeTable(c.Request.Context(), ds)
	if err != nil && table == nil {
		s.respondError(c, err)
		return
	}
	resp := associationResponse{AssociationTable: table}
	if err != nil {
		resp.Warning = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleLatestAssociations(c *gin.Context) {
	table := c.Query("table")
	if table == "" {
		ds, err := s.Dataset()
		if err != nil {
			s.respondError(c, err)
			return
		}
		table = ds.DisplayName()
	}
	records, err := s.associations.LatestTable(c.Request.Context(), table)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_name": table, "records": records})
}

// regressionResponse carries a run and, when saving it failed, the reason
type regressionResponse struct {
	*app.RegressionResult
	Warning string `json:"warning,omitempty"`
}

func (s *Server) handleRegression(c *gin.Context) {
	ds, err := s.Dataset()
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req app.RegressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	result, err := s.regressions.Run(c.Request.Context(), ds, req)
	if err != nil && result == nil {
		s.respondError(c, err)
		return
	}
	resp := regressionResponse{RegressionResult: result}
	if err != nil {
		resp.Warning = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRegressionRun(c *gin.Context) {
	runID, err := strconv.Atoi(c.Param("run"))
	if err != nil || runID < 1 {
		s.respondError(c, errors.InvalidInput("run id must be a positive integer"))
		return
	}
	rows, err := s.regressions.Rows(c.Request.Context(), runID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": runID, "rows": rows})
}
