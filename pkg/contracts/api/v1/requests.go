// Package api contains the HTTP contract of the spending forecast service.
package api

import "github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"

// UploadRequest describes a received file before it enters the pipeline.
type UploadRequest struct {
	Filename string `json:"filename" validate:"required,filename"`
	Format   string `json:"format" validate:"required,oneof=.csv .xlsx"`
	Size     int64  `json:"size" validate:"gte=0"`
}

// ExportRequest selects the export format.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv xlsx"`
}

// ForecastResponse is returned by the JSON forecast endpoint.
type ForecastResponse struct {
	*domain.Analysis
	Horizon int `json:"horizon"`
}
