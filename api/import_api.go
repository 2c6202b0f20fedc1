package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taqseet/taqseet"
	"github.com/taqseet/taqseet/internal/files"
	"github.com/taqseet/taqseet/model"
)

// ImportTransactions runs a batch import over a JSON row set. The response
// always carries the full summary: imported count plus every rejected row.
func (a Api) ImportTransactions(c *gin.Context) {
	var req struct {
		Rows    []model.ImportRow  `json:"rows" binding:"required"`
		Mapping model.FieldMapping `json:"mapping" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := a.taqseet.ImportTransactions(c.Request.Context(), req.Rows, req.Mapping)
	if err != nil {
		logrus.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process import"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ImportTransactionsFile accepts a multipart spreadsheet upload (.xlsx or
// .csv) plus a mapping JSON form field, parses the file into rows and runs
// the same batch import.
func (a Api) ImportTransactionsFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File upload failed"})
		return
	}
	defer file.Close()

	var mapping model.FieldMapping
	if err := json.Unmarshal([]byte(c.PostForm("mapping")), &mapping); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mapping"})
		return
	}

	rows, _, err := files.ParseImportFile(file, header.Filename)
	if err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := a.taqseet.ImportTransactions(c.Request.Context(), rows, mapping)
	if err != nil {
		logrus.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process import"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RetryImportRow re-runs one previously-failed row through the identical
// import path, with lookup state rebuilt fresh.
func (a Api) RetryImportRow(c *gin.Context) {
	var req struct {
		Row     model.ImportRow    `json:"row" binding:"required"`
		Mapping model.FieldMapping `json:"mapping" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := a.taqseet.RetryImportRow(c.Request.Context(), req.Row, req.Mapping)
	if err != nil {
		logrus.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retry row"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportImportErrors serializes a batch's errors to CSV for correction and
// resubmission: every original column plus an error-message column.
func (a Api) ExportImportErrors(c *gin.Context) {
	var req struct {
		Columns []string            `json:"columns" binding:"required"`
		Errors  []model.ImportError `json:"errors" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := taqseet.WriteErrorsCSV(&buf, req.Columns, req.Errors); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export errors"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="import_errors.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
